package docproc

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func solidImage(w, h int, c color.Color) image.Image {
	return imaging.New(w, h, c)
}

func TestStackPagesDimensions(t *testing.T) {
	tests := []struct {
		name       string
		pages      []image.Image
		wantWidth  int
		wantHeight int
	}{
		{
			"single page",
			[]image.Image{solidImage(100, 200, color.Black)},
			100, 200,
		},
		{
			"equal widths",
			[]image.Image{solidImage(100, 200, color.Black), solidImage(100, 150, color.Black)},
			100, 350,
		},
		{
			"mixed widths",
			[]image.Image{solidImage(80, 100, color.Black), solidImage(120, 60, color.Black), solidImage(40, 30, color.Black)},
			120, 190,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stackPages(tt.pages)
			if err != nil {
				t.Fatalf("stackPages() error = %v", err)
			}
			if w := got.Bounds().Dx(); w != tt.wantWidth {
				t.Errorf("width = %d, want %d", w, tt.wantWidth)
			}
			if h := got.Bounds().Dy(); h != tt.wantHeight {
				t.Errorf("height = %d, want %d", h, tt.wantHeight)
			}
		})
	}
}

func TestStackPagesCentersNarrowPages(t *testing.T) {
	wide := solidImage(100, 10, color.Black)
	narrow := solidImage(50, 10, color.Black)

	got, err := stackPages([]image.Image{wide, narrow})
	if err != nil {
		t.Fatalf("stackPages() error = %v", err)
	}

	// The narrow page occupies x in [25, 75) on the second band; outside it
	// the white background shows.
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}
	if c := got.NRGBAAt(10, 15); c != white {
		t.Errorf("pixel left of centered page = %v, want white", c)
	}
	if c := got.NRGBAAt(50, 15); c != black {
		t.Errorf("pixel inside centered page = %v, want black", c)
	}
	if c := got.NRGBAAt(90, 15); c != white {
		t.Errorf("pixel right of centered page = %v, want white", c)
	}
}

func TestStackPagesPreservesOrder(t *testing.T) {
	top := solidImage(10, 10, color.NRGBA{255, 0, 0, 255})
	bottom := solidImage(10, 10, color.NRGBA{0, 0, 255, 255})

	got, err := stackPages([]image.Image{top, bottom})
	if err != nil {
		t.Fatalf("stackPages() error = %v", err)
	}
	if c := got.NRGBAAt(5, 5); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("top band = %v, want red", c)
	}
	if c := got.NRGBAAt(5, 15); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("bottom band = %v, want blue", c)
	}
}

func TestStackPagesEmpty(t *testing.T) {
	if _, err := stackPages(nil); !errors.Is(err, ErrNoPageImages) {
		t.Fatalf("stackPages(nil) error = %v, want %v", err, ErrNoPageImages)
	}
}
