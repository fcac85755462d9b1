package spriter

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureRegion describes a sub-rectangle within an atlas page.
type TextureRegion struct {
	Page      uint16 // atlas page index
	X, Y      uint16 // top-left corner of the sub-image rect within the atlas page
	Width     uint16 // width of the sub-image rect (may differ from OriginalW if trimmed)
	Height    uint16 // height of the sub-image rect (may differ from OriginalH if trimmed)
	OriginalW uint16 // untrimmed sprite width as authored
	OriginalH uint16 // untrimmed sprite height as authored
	OffsetX   int16  // horizontal trim offset from TexturePacker
	OffsetY   int16  // vertical trim offset from TexturePacker
	Rotated   bool   // true if the region is stored 90 degrees clockwise in the atlas
}

// pageRect returns the rectangle the region occupies on its page.
func (r TextureRegion) pageRect() image.Rectangle {
	if r.Rotated {
		return image.Rect(int(r.X), int(r.Y), int(r.X)+int(r.Height), int(r.Y)+int(r.Width))
	}
	return image.Rect(int(r.X), int(r.Y), int(r.X)+int(r.Width), int(r.Y)+int(r.Height))
}

// Atlas holds one or more atlas page images and a map of named regions.
// Region names are the file names a Document's folders list, so
// "legs/thigh.png" in the SCON data is looked up as "legs/thigh.png" here.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number.
	Pages   []*ebiten.Image
	regions map[string]TextureRegion
}

// Region returns the TextureRegion for the given name.
func (a *Atlas) Region(name string) (TextureRegion, bool) {
	if a == nil {
		return TextureRegion{}, false
	}
	r, ok := a.regions[name]
	return r, ok
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for n := range a.regions {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// SubImage returns the page sub-image backing r, or nil when r's page is
// not loaded. Rotated regions are returned as stored.
func (a *Atlas) SubImage(r TextureRegion) *ebiten.Image {
	if r.Page == magentaPlaceholderPage {
		return ensureMagentaImage()
	}
	if a == nil || int(r.Page) >= len(a.Pages) || a.Pages[r.Page] == nil {
		return nil
	}
	return a.Pages[r.Page].SubImage(r.pageRect()).(*ebiten.Image)
}

// magenta placeholder singleton; drawing happens on the ebiten goroutine only.
var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// magentaPlaceholderPage is a sentinel page index used for magenta placeholders.
// It's high enough to never collide with real atlas pages.
const magentaPlaceholderPage = 0xFFFF

// placeholderRegion is drawn in debug mode for files the atlas lacks. It is
// sized to the file so the mistake is visible where the sprite should be.
func placeholderRegion(w, h float64) TextureRegion {
	return TextureRegion{
		Page:      magentaPlaceholderPage,
		Width:     1,
		Height:    1,
		OriginalW: uint16(max(w, 1)),
		OriginalH: uint16(max(h, 1)),
	}
}

// LoadAtlas parses TexturePacker JSON data and associates the given page images.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists).
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("spriter: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]TextureRegion),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("spriter: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// AtlasPageImages returns the page image file names named by TexturePacker
// JSON data, in page order. Loaders use it to find the images to decode
// before calling LoadAtlas.
func AtlasPageImages(jsonData []byte) ([]string, error) {
	var probe struct {
		Textures []struct {
			Image string `json:"image"`
		} `json:"textures"`
		Meta struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("spriter: failed to parse atlas JSON: %w", err)
	}
	if len(probe.Textures) > 0 {
		out := make([]string, len(probe.Textures))
		for i, t := range probe.Textures {
			out[i] = t.Image
		}
		return out, nil
	}
	if probe.Meta.Image == "" {
		return nil, fmt.Errorf("spriter: atlas JSON names no page image")
	}
	return []string{probe.Meta.Image}, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Filename         string   `json:"filename"`
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string          `json:"image"`
	Frames json.RawMessage `json:"frames"`
}

// parseFrames accepts both the hash form {"name": {frame...}} and the
// array form [{"filename": "name", ...}].
func parseFrames(raw json.RawMessage, pageIndex uint16, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err == nil {
		for name, f := range frames {
			atlas.regions[name] = frameToRegion(f, pageIndex)
		}
		return nil
	}
	var list []jsonFrame
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("spriter: failed to parse atlas frames: %w", err)
	}
	for _, f := range list {
		if f.Filename == "" {
			return fmt.Errorf("spriter: atlas frame without filename")
		}
		atlas.regions[f.Filename] = frameToRegion(f, pageIndex)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("spriter: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		if err := parseFrames(tex.Frames, uint16(i), atlas); err != nil {
			return fmt.Errorf("spriter: atlas page %d (%s): %w", i, tex.Image, err)
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page uint16) TextureRegion {
	ow, oh := f.SourceSize.W, f.SourceSize.H
	if ow == 0 && oh == 0 {
		ow, oh = f.Frame.W, f.Frame.H
	}
	return TextureRegion{
		Page:      page,
		X:         uint16(f.Frame.X),
		Y:         uint16(f.Frame.Y),
		Width:     uint16(f.Frame.W),
		Height:    uint16(f.Frame.H),
		OriginalW: uint16(ow),
		OriginalH: uint16(oh),
		OffsetX:   int16(f.SpriteSourceSize.X),
		OffsetY:   int16(f.SpriteSourceSize.Y),
		Rotated:   f.Rotated,
	}
}
