package sceneui

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"

	// Registered decoders for uploads
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 75

// DecodeImage decodes an uploaded image and returns it with the name of its
// format, e.g. "png".
func DecodeImage(data []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(data))
}

// EncodeImage re-encodes img as a JPEG and returns the base64 encoding of the
// JPEG bytes. Images with an alpha channel have it dropped first.
func EncodeImage(img image.Image) (string, error) {
	if hasAlpha(img) {
		img = dropAlpha(img)
	}

	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// hasAlpha reports whether the color model of img carries an alpha channel.
// This looks at the model only, an NRGBA image where every pixel is opaque
// still has alpha.
func hasAlpha(img image.Image) bool {
	if p, ok := img.ColorModel().(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}

	switch img.ColorModel() {
	case color.RGBAModel, color.RGBA64Model,
		color.NRGBAModel, color.NRGBA64Model,
		color.AlphaModel, color.Alpha16Model,
		color.NYCbCrAModel:
		return true
	}
	return false
}

// dropAlpha copies img into an opaque RGBA image. The color channels keep
// their straight (non-premultiplied) values, alpha is discarded rather than
// composited against a background.
func dropAlpha(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)

	if src, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := src.NRGBAAt(x, y)
				out.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 0xff})
			}
		}
		return out
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 0xff})
		}
	}
	return out
}
