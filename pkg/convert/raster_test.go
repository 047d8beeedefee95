package convert

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestDecodeImage_PNGGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	copy(img.Pix, []byte{10, 20, 30, 40})

	out, err := DecodeImage(encodePNG(t, img), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Width)
	assert.Equal(t, 2, out.Height)
	assert.Equal(t, []byte{10, 20, 30, 40}, out.Pix)
}

func TestDecodeImage_ColorToLuma(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(2, 0, color.NRGBA{B: 255, A: 255})
	img.Set(3, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 10}) // alpha is ignored

	out, err := DecodeImage(encodePNG(t, img), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{76, 150, 29, 200}, out.Pix)
}

func TestDecodeImage_JPEGAndBMP(t *testing.T) {
	src := uniformGray(8, 6, 128)

	var jbuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jbuf, src, &jpeg.Options{Quality: 100}))
	out, err := DecodeImage(jbuf.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Width)
	assert.Equal(t, 6, out.Height)
	assert.InDelta(t, 128, int(out.Pix[0]), 2)

	var bbuf bytes.Buffer
	require.NoError(t, bmp.Encode(&bbuf, src))
	out, err = DecodeImage(bbuf.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, 48, len(out.Pix))
	assert.Equal(t, byte(128), out.Pix[47])
}

func TestDecodeImage_Errors(t *testing.T) {
	_, err := DecodeImage([]byte("definitely not an image"), 0)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodeImage(nil, 0)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodeImage(encodePNG(t, uniformGray(10, 10, 0)), 99)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = DecodeImage(encodePNG(t, uniformGray(10, 10, 0)), 100)
	assert.NoError(t, err)
}

func TestGrayscale(t *testing.T) {
	// sub image with a non zero origin
	base := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range base.Pix {
		base.Pix[i] = uint8(i)
	}
	sub := base.SubImage(image.Rect(1, 1, 3, 3))
	out := Grayscale(sub)
	assert.Equal(t, []byte{5, 6, 9, 10}, out.Pix)

	g16 := image.NewGray16(image.Rect(0, 0, 2, 1))
	g16.SetGray16(0, 0, color.Gray16{Y: 0xABCD})
	g16.SetGray16(1, 0, color.Gray16{Y: 0x00FF})
	assert.Equal(t, []byte{0xAB, 0x00}, Grayscale(g16).Pix)

	pal := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Gray{Y: 77}})
	assert.Equal(t, []byte{77}, Grayscale(pal).Pix)
}
