package spriter

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// DrawOptions controls how DrawEntity renders a pose.
type DrawOptions struct {
	// GeoM is applied last, after the entity's Root, in screen space.
	GeoM ebiten.GeoM
	// NoFlipY draws pose coordinates as-is. By default the y axis is flipped
	// because animation data is authored y-up and the screen is y-down.
	NoFlipY bool
	// Blend is the blend mode for every element.
	Blend ebiten.Blend
	// Filter is the sampling filter for every element.
	Filter ebiten.Filter
	// Placeholders draws a magenta box for elements whose file has no atlas
	// region, instead of skipping them.
	Placeholders bool
}

// geoMFromMatrix converts an [a, b, c, d, tx, ty] matrix into an ebiten.GeoM.
func geoMFromMatrix(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// ElementGeoM returns the image-space to screen-space transform for drawing
// region as the element el, whose file is f. The region is centered on the
// element's world position and stretched to the file's authored size, then
// placed by root (screen space). flipY converts y-up pose space to y-down.
func ElementGeoM(el *Element, f *File, region TextureRegion, root Transform, flipY bool) ebiten.GeoM {
	var g ebiten.GeoM
	if region.Page == magentaPlaceholderPage {
		g.Scale(float64(region.OriginalW), float64(region.OriginalH))
	} else {
		// Rotated regions are stored 90° clockwise: rotate back and shift
		// down by the stored width.
		if region.Rotated {
			g.Rotate(-1.5707963267948966)
			g.Translate(0, float64(region.Height))
		}
		if region.OffsetX != 0 || region.OffsetY != 0 {
			g.Translate(float64(region.OffsetX), float64(region.OffsetY))
		}
	}

	ow, oh := float64(region.OriginalW), float64(region.OriginalH)
	g.Translate(-ow/2, -oh/2)
	if f != nil && ow > 0 && oh > 0 && (f.Width != ow || f.Height != oh) {
		g.Scale(f.Width/ow, f.Height/oh)
	}

	w := el.World
	if flipY {
		g.Scale(w.Scale.X, -w.Scale.Y)
	} else {
		g.Scale(w.Scale.X, w.Scale.Y)
	}
	g.Rotate(w.Rotation)
	g.Translate(w.Position.X, w.Position.Y)
	if flipY {
		g.Scale(1, -1)
	}
	g.Concat(geoMFromMatrix(root.Matrix()))
	return g
}

// DrawEntity draws e's last sampled pose onto dst using atlas regions named
// after each element's file. Elements are drawn in pose order, which is the
// authored stacking order. It returns the number of elements drawn.
// Elements whose file is unknown, or which the atlas lacks (unless
// opts.Placeholders is set), are skipped.
func DrawEntity(dst *ebiten.Image, e *Entity, atlas *Atlas, opts *DrawOptions) int {
	if opts == nil {
		opts = &DrawOptions{}
	}
	pose := e.Pose()

	var op ebiten.DrawImageOptions
	op.Blend = opts.Blend
	op.Filter = opts.Filter

	drawn := 0
	for i := range pose.Elements {
		el := &pose.Elements[i]
		alpha := el.Alpha * e.Alpha
		if alpha <= 0 {
			continue
		}
		f, ok := resolveFile(e.files, el.FolderID, el.FileID)
		if !ok {
			continue
		}
		region, ok := atlas.Region(f.Name)
		if !ok {
			if !opts.Placeholders {
				continue
			}
			region = placeholderRegion(f.Width, f.Height)
		}
		img := atlas.SubImage(region)
		if img == nil {
			continue
		}

		op.GeoM = ElementGeoM(el, f, region, e.Root, !opts.NoFlipY)
		op.GeoM.Concat(opts.GeoM)
		op.ColorScale.Reset()
		op.ColorScale.ScaleAlpha(float32(min(alpha, 1)))
		dst.DrawImage(img, &op)
		drawn++
	}
	return drawn
}
