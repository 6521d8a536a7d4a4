package loaders

import (
	"github.com/cockroachdb/errors"
	"github.com/fzipp/bmfont"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

/**
 * @brief Loads AngelCode .fnt descriptors along with their page sheets.
 */
type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading bitmap font %s", path)
	}
	rd := importFNT(font)
	if len(rd.Pages) == 0 {
		return nil, errors.Newf("bitmap font %s has no pages", path)
	}

	return &metadata.Resource{
		LoaderType: metadata.ResourceTypeBitmapFont,
		Name:       resourceName(path, params),
		FullPath:   path,
		DataSize:   uint64(len(rd.Data.Glyphs)),
		Data:       rd,
	}, nil
}

func (fl *BitmapFontLoader) Unload(resource *metadata.Resource) error {
	if resource != nil {
		if data, ok := resource.Data.(*metadata.BitmapFontResourceData); ok {
			data.Data.Glyphs = nil
			data.Data.Kernings = nil
			data.Pages = nil
		}
	}
	return unloadResource(resource)
}

func importFNT(font *bmfont.BitmapFont) *metadata.BitmapFontResourceData {
	desc := font.Descriptor
	outData := &metadata.BitmapFontResourceData{
		Data: &metadata.FontData{
			FontType:   metadata.FONT_TYPE_BITMAP,
			Face:       desc.Info.Face,
			Size:       uint32(desc.Info.Size),
			LineHeight: int32(desc.Common.LineHeight),
			Baseline:   int32(desc.Common.Base),
			AtlasSizeX: int32(desc.Common.ScaleW),
			AtlasSizeY: int32(desc.Common.ScaleH),
			Glyphs:     make(map[int32]*metadata.FontGlyph, len(desc.Chars)),
			Kernings:   make(map[[2]int32]int16, len(desc.Kerning)),
		},
	}

	for _, p := range desc.Pages {
		outData.Pages = append(outData.Pages, &metadata.BitmapFontPage{
			ID:    int8(p.ID),
			Name:  p.File,
			Image: font.PageSheets[p.ID],
		})
	}

	for _, g := range desc.Chars {
		outData.Data.Glyphs[int32(g.ID)] = &metadata.FontGlyph{
			Codepoint: int32(g.ID),
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    uint8(g.Page),
		}
	}

	for pair, k := range desc.Kerning {
		outData.Data.Kernings[[2]int32{int32(pair.First), int32(pair.Second)}] = int16(k.Amount)
	}

	return outData
}
