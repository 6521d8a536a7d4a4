package ui

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/cockroachdb/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// Pixels between the text block and the edge of its background.
const textPadding = 4

var backgroundColor = color.RGBA{A: 160}

// TextRasterizer draws lines of text into a tightly sized RGBA image.
type TextRasterizer interface {
	Rasterize(lines []string) *image.RGBA
}

/** @brief Rasterizes with an x/image font face. */
type faceRasterizer struct {
	face font.Face
}

func NewBasicRasterizer() TextRasterizer {
	return &faceRasterizer{face: basicfont.Face7x13}
}

// NewTrueTypeRasterizer builds a face from TrueType or OpenType bytes at size points.
func NewTrueTypeRasterizer(data *metadata.SystemFontResourceData, size float64) (TextRasterizer, error) {
	collection, err := opentype.ParseCollection(data.Binary)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing font %s", data.Name)
	}
	f, err := collection.Font(0)
	if err != nil {
		return nil, errors.Wrapf(err, "font %s", data.Name)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating face for %s", data.Name)
	}
	return &faceRasterizer{face: face}, nil
}

func (fr *faceRasterizer) Rasterize(lines []string) *image.RGBA {
	metrics := fr.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(fr.face, line).Ceil())
	}
	img := newBackground(width, lineHeight*len(lines))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: fr.face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(textPadding, textPadding+i*lineHeight+metrics.Ascent.Ceil())
		d.DrawString(line)
	}
	return img
}

/** @brief Rasterizes by copying glyphs out of BMFont page sheets. */
type bitmapRasterizer struct {
	data *metadata.BitmapFontResourceData
}

func NewBitmapRasterizer(data *metadata.BitmapFontResourceData) (TextRasterizer, error) {
	if data == nil || data.Data == nil || len(data.Pages) == 0 {
		return nil, errors.New("bitmap font has no glyph data")
	}
	return &bitmapRasterizer{data: data}, nil
}

func (br *bitmapRasterizer) measure(line string) int {
	w := 0
	prev := int32(-1)
	for _, r := range line {
		g, ok := br.data.Data.Glyphs[r]
		if !ok {
			continue
		}
		w += int(g.XAdvance) + int(br.data.Data.Kernings[[2]int32{prev, r}])
		prev = r
	}
	return w
}

func (br *bitmapRasterizer) Rasterize(lines []string) *image.RGBA {
	lineHeight := int(br.data.Data.LineHeight)
	width := 0
	for _, line := range lines {
		width = max(width, br.measure(line))
	}
	img := newBackground(width, lineHeight*len(lines))

	for i, line := range lines {
		x := textPadding
		y := textPadding + i*lineHeight
		prev := int32(-1)
		for _, r := range line {
			g, ok := br.data.Data.Glyphs[r]
			if !ok {
				continue
			}
			x += int(br.data.Data.Kernings[[2]int32{prev, r}])
			prev = r
			page := br.page(g.PageID)
			if page != nil && g.Width > 0 && g.Height > 0 {
				dst := image.Rect(0, 0, int(g.Width), int(g.Height)).
					Add(image.Pt(x+int(g.XOffset), y+int(g.YOffset)))
				draw.Draw(img, dst, page, image.Pt(int(g.X), int(g.Y)), draw.Over)
			}
			x += int(g.XAdvance)
		}
	}
	return img
}

func (br *bitmapRasterizer) page(id uint8) image.Image {
	for _, p := range br.data.Pages {
		if uint8(p.ID) == id {
			return p.Image
		}
	}
	return nil
}

func newBackground(textWidth, textHeight int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, textWidth+2*textPadding, textHeight+2*textPadding))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	return img
}
