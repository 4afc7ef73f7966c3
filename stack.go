package docproc

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// stackPages concatenates page images vertically into one composite.
// The composite height is the sum of page heights and its width the
// maximum page width; narrower pages are centered horizontally against a
// white background.
func stackPages(pages []image.Image) (*image.NRGBA, error) {
	if len(pages) == 0 {
		return nil, ErrNoPageImages
	}

	maxWidth, totalHeight := 0, 0
	for _, p := range pages {
		if w := p.Bounds().Dx(); w > maxWidth {
			maxWidth = w
		}
		totalHeight += p.Bounds().Dy()
	}

	combined := imaging.New(maxWidth, totalHeight, color.White)
	y := 0
	for _, p := range pages {
		x := (maxWidth - p.Bounds().Dx()) / 2
		combined = imaging.Paste(combined, p, image.Pt(x, y))
		y += p.Bounds().Dy()
	}
	return combined, nil
}
