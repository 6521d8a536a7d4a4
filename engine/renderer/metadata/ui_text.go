package metadata

import "image"

type FontType int

const (
	FONT_TYPE_BITMAP FontType = iota
	FONT_TYPE_SYSTEM
)

type FontGlyph struct {
	Codepoint int32
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

type FontKerning struct {
	Codepoint0 int32
	Codepoint1 int32
	Amount     int16
}

// FontData describes a bitmap font atlas already decoded to images.
type FontData struct {
	FontType   FontType
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     map[int32]*FontGlyph
	Kernings   map[[2]int32]int16
}

type BitmapFontPage struct {
	ID    int8
	Name  string
	Image image.Image
}

type BitmapFontResourceData struct {
	Data  *FontData
	Pages []*BitmapFontPage
}

type SystemFontResourceData struct {
	Name string
	// Raw TrueType/OpenType bytes, parsed by the overlay into a face.
	Binary []byte
}
