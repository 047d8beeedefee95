package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodedImage is an 8-bit grayscale raster in row-major order
type DecodedImage struct {
	Width  int
	Height int
	Pix    []byte
}

// DecodeImage decodes PNG, JPEG, GIF, BMP, TIFF or WebP data into an 8-bit
// grayscale raster, honoring EXIF orientation. maxPixels <= 0 disables the
// size check, which runs before the full decode.
func DecodeImage(data []byte, maxPixels int) (DecodedImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return DecodedImage{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return DecodedImage{}, fmt.Errorf("%w: %s has zero area %dx%d", ErrInvalidImage, format, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return DecodedImage{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return DecodedImage{}, fmt.Errorf("%w: %s: %v", ErrDecode, format, err)
	}
	return Grayscale(img), nil
}

// Grayscale converts any image to 8-bit luma using the ITU-R 601-2 weights
// on straight RGB; 16-bit gray keeps its high byte.
func Grayscale(img image.Image) DecodedImage {
	b := img.Bounds()
	out := DecodedImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]byte, b.Dx()*b.Dy()),
	}

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < out.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Width:], src.Pix[off:off+out.Width])
		}
		return out
	case *image.Gray16:
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Pix[y*out.Width+x] = src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)]
			}
		}
		return out
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[i] = luma(c.R, c.G, c.B)
			i++
		}
	}
	return out
}

// luma is L = R*299/1000 + G*587/1000 + B*114/1000 in 16.16 fixed point, rounded
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 1<<15) >> 16)
}
