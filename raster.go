package docproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
	fitz "github.com/gen2brain/go-fitz"
	"golang.org/x/image/tiff"
)

// pdfPointsPerInch is the PDF native unit; page renders are scaled by
// DPI/72 relative to it.
const pdfPointsPerInch = 72

// Codec selects the raster archive container and its compression family.
type Codec string

const (
	// CodecTIFF encodes a lossless Deflate-compressed TIFF.
	CodecTIFF Codec = "tiff"
	// CodecJPEG encodes a lossy JPEG at the configured quality.
	CodecJPEG Codec = "jpeg"
)

// Validate accepts the two known codecs.
func (c Codec) Validate() error {
	switch c {
	case CodecTIFF, CodecJPEG:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidCodec, c)
}

// Lossless reports whether the codec preserves pixel data exactly.
func (c Codec) Lossless() bool { return c == CodecTIFF }

// ContentType returns the MIME type of the encoded archive.
func (c Codec) ContentType() string {
	if c == CodecJPEG {
		return "image/jpeg"
	}
	return "image/tiff"
}

// Extension returns the blob name extension for the codec container.
func (c Codec) Extension() string {
	if c == CodecJPEG {
		return ".jpg"
	}
	return ".tiff"
}

// RasterConfig is the immutable per-call configuration of the
// rasterization engine. The zero value is not valid; start from
// DefaultRasterConfig.
type RasterConfig struct {
	// DPI is the render resolution for each page.
	DPI int
	// Codec selects the archive container.
	Codec Codec
	// Quality is the lossy quality level (1-100), used by CodecJPEG only.
	Quality int
	// MaxPageWidth caps each rendered page's width in pixels. Wider pages
	// are downscaled proportionally before stacking to bound memory and
	// output size. Zero disables the cap.
	MaxPageWidth int
}

// DefaultRasterConfig mirrors the production defaults: 100 DPI lossless
// TIFF with a 4000 pixel page-width cap.
func DefaultRasterConfig() RasterConfig {
	return RasterConfig{DPI: 100, Codec: CodecTIFF, Quality: 85, MaxPageWidth: 4000}
}

// Validate checks the configuration ranges.
func (c RasterConfig) Validate() error {
	if c.DPI < 36 || c.DPI > 1200 {
		return fmt.Errorf("%w: %d (must be between 36 and 1200)", ErrInvalidDPI, c.DPI)
	}
	if err := c.Codec.Validate(); err != nil {
		return err
	}
	if c.Codec == CodecJPEG && (c.Quality < 1 || c.Quality > 100) {
		return fmt.Errorf("%w: %d (must be between 1 and 100)", ErrInvalidQuality, c.Quality)
	}
	if c.MaxPageWidth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxWidth, c.MaxPageWidth)
	}
	return nil
}

// RasterArchive is the encoded single-frame image produced from a stacked
// document composite, with its resolution and codec metadata.
type RasterArchive struct {
	Data  []byte
	DPI   int
	Codec Codec
}

// rasterize converts a PDF into a single stacked image archive. Every page
// is rendered at DPI/72 scale, normalized to the 3-channel representation,
// downscaled if wider than the configured cap, stacked vertically, and
// encoded with the configured codec. Per-page buffers do not outlive the
// call; a failure on any page aborts without a partial archive.
func rasterize(pdfBytes []byte, cfg RasterConfig) (*RasterArchive, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterConvert, err)
	}

	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %v", ErrRasterConvert, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("%w: %w", ErrRasterConvert, ErrNoPages)
	}

	pages := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		rendered, err := doc.ImageDPI(i, float64(cfg.DPI))
		if err != nil {
			return nil, fmt.Errorf("%w: rendering page %d: %v", ErrRasterConvert, i+1, err)
		}
		page := normalizePage(rendered)
		if cfg.MaxPageWidth > 0 && page.Bounds().Dx() > cfg.MaxPageWidth {
			page = imaging.Resize(page, cfg.MaxPageWidth, 0, imaging.Lanczos)
		}
		pages = append(pages, page)
	}

	// Once the stacked composite exists the per-page buffers are dropped;
	// nothing retains them past this call.
	stacked, err := stackPages(pages)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterConvert, err)
	}

	data, err := encodeArchive(stacked, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterConvert, err)
	}
	return &RasterArchive{Data: data, DPI: cfg.DPI, Codec: cfg.Codec}, nil
}

// normalizePage converts a rendered page to the single 3-channel RGB
// representation (8-bit, opaque) used for stacking and encoding,
// regardless of the source color space.
func normalizePage(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// encodeArchive encodes the stacked composite with the configured codec
// and embeds the target DPI in the container metadata.
func encodeArchive(img *image.NRGBA, cfg RasterConfig) ([]byte, error) {
	var buf bytes.Buffer
	switch cfg.Codec {
	case CodecTIFF:
		opts := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
		if err := tiff.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encoding TIFF: %w", err)
		}
		return setTIFFResolution(buf.Bytes(), cfg.DPI)
	case CodecJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: cfg.Quality}); err != nil {
			return nil, fmt.Errorf("encoding JPEG: %w", err)
		}
		return setJFIFDensity(buf.Bytes(), cfg.DPI)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidCodec, cfg.Codec)
}
