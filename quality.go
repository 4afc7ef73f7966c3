package docproc

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
)

// validateArchive inspects a produced raster archive against format,
// color-mode, and structural expectations. It is advisory: callers may
// proceed on a false result but should record a warning. It never fails
// hard; diagnostic detail goes to the logger.
func validateArchive(a *RasterArchive, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	if a == nil || len(a.Data) == 0 {
		logger.Warn("raster archive validation: empty archive")
		return false
	}

	img, format, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		logger.Warn("raster archive validation: decode failed", "error", err)
		return false
	}

	if format != string(a.Codec) {
		logger.Warn("raster archive validation: unexpected container",
			"format", format, "want", string(a.Codec))
		return false
	}

	if !isNormalizedColorModel(img.ColorModel()) {
		logger.Warn("raster archive validation: unexpected color mode",
			"format", format)
		return false
	}

	bounds := img.Bounds()
	logger.Debug("raster archive validation passed",
		"format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"dpi", a.DPI)
	return true
}

// isNormalizedColorModel reports whether a decoded color model corresponds
// to the normalized 3-channel representation. TIFF decodes of the stacked
// composite come back as (N)RGBA with opaque alpha; JPEG decodes report
// YCbCr, the container's native 3-channel form of the same RGB data.
func isNormalizedColorModel(m color.Model) bool {
	switch m {
	case color.NRGBAModel, color.RGBAModel, color.YCbCrModel:
		return true
	}
	return false
}
