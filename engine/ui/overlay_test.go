package ui

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayRasterizesOnlyOnChange(t *testing.T) {
	o := NewOverlay(OverlayConfig{Margin: 8}, nil)

	o.BeginFrame()
	o.Text("FPS %d", 60)
	o.EndFrame()
	require.NotNil(t, o.Image())
	first := o.Image()
	assert.Equal(t, uint64(1), o.Generation())

	o.BeginFrame()
	o.Text("FPS %d", 60)
	o.EndFrame()
	assert.Same(t, first, o.Image())
	assert.Equal(t, uint64(1), o.Generation())

	o.BeginFrame()
	o.Text("FPS %d", 59)
	o.Text("entities: %d", 3)
	o.EndFrame()
	assert.Equal(t, uint64(2), o.Generation())
	// Two lines are taller than one.
	assert.Greater(t, o.Image().Bounds().Dy(), first.Bounds().Dy())

	o.BeginFrame()
	o.EndFrame()
	assert.Nil(t, o.Image())
	assert.Equal(t, uint64(3), o.Generation())
}

func TestOverlayRecordWithoutTextIsNoop(t *testing.T) {
	o := NewOverlay(OverlayConfig{}, nil)
	assert.NoError(t, o.PrepareFrame(nil, nil))
	assert.NoError(t, o.RecordDrawCommands(nil, nil))
	o.Destroy()
}

func TestOverlayScreenRect(t *testing.T) {
	o := NewOverlay(OverlayConfig{Margin: 10}, nil)
	assert.Equal(t, float32(0), o.ScreenRect(800, 600).Len())

	o.BeginFrame()
	o.Text("hello")
	o.EndFrame()
	b := o.Image().Bounds()

	rect := o.ScreenRect(800, 600)
	assert.InDelta(t, -1+20.0/800, rect.X(), 1e-6)
	assert.InDelta(t, -1+20.0/600, rect.Y(), 1e-6)
	assert.InDelta(t, float64(2*b.Dx())/800, float64(rect.Z()-rect.X()), 1e-5)
	assert.InDelta(t, float64(2*b.Dy())/600, float64(rect.W()-rect.Y()), 1e-5)
}

func TestBasicRasterizerDrawsGlyphs(t *testing.T) {
	img := NewBasicRasterizer().Rasterize([]string{"MMM"})
	b := img.Bounds()
	// basicfont is 7 pixels wide per glyph.
	assert.Equal(t, 3*7+2*textPadding, b.Dx())

	white := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).R > 200 {
				white++
			}
		}
	}
	assert.Positive(t, white)
	assert.Equal(t, backgroundColor, img.RGBAAt(0, 0))
}

func TestBitmapRasterizer(t *testing.T) {
	_, err := NewBitmapRasterizer(nil)
	assert.Error(t, err)

	page := image.NewRGBA(image.Rect(0, 0, 16, 8))
	draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	data := &metadata.BitmapFontResourceData{
		Data: &metadata.FontData{
			LineHeight: 8,
			Glyphs: map[int32]*metadata.FontGlyph{
				'A': {Codepoint: 'A', X: 0, Y: 0, Width: 6, Height: 8, XAdvance: 7},
				'B': {Codepoint: 'B', X: 8, Y: 0, Width: 6, Height: 8, XAdvance: 7},
			},
			Kernings: map[[2]int32]int16{{'A', 'B'}: -1},
		},
		Pages: []*metadata.BitmapFontPage{{ID: 0, Image: page}},
	}
	r, err := NewBitmapRasterizer(data)
	require.NoError(t, err)

	img := r.Rasterize([]string{"AB?", "A"})
	// Unknown runes are skipped, kerning applies between A and B.
	assert.Equal(t, 13+2*textPadding, img.Bounds().Dx())
	assert.Equal(t, 16+2*textPadding, img.Bounds().Dy())
	assert.Equal(t, uint8(255), img.RGBAAt(textPadding, textPadding).R)
}
