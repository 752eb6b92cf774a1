// Package raster is the ambient collaborator that turns ordinary image
// files into the flat 8-bit grayscale byte rasters the core codecs operate
// on, and back again. Nothing in golomb or imagecodec imports this package;
// it exists only for cmd/golompress.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

// LoadGrayscale decodes any image/-registered format (PNG, JPEG, GIF) from
// path and converts it to an 8-bit grayscale raster in row-major order.
func LoadGrayscale(path string) (pix []byte, width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "raster: open")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "raster: decode")
	}

	pix, width, height = toGrayscale(img)
	return pix, width, height, nil
}

// SaveGrayscale writes pix (a width*height 8-bit grayscale raster) to path
// as a PNG. It does not validate that len(pix) == width*height; callers that
// want that check should route the raster through imagecodec first.
func SaveGrayscale(path string, pix []byte, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "raster: create")
	}
	defer f.Close()

	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)

	if err := png.Encode(f, img); err != nil {
		return errors.Wrap(err, "raster: encode png")
	}
	return nil
}

// toGrayscale copies src into an *image.RGBA with bounds starting at (0,0)
// (matching the teacher's ImageToRGBA), then reduces each pixel with the
// standard library's Rec. 601-weighted gray model.
func toGrayscale(src image.Image) (pix []byte, width, height int) {
	b := src.Bounds()
	width, height = b.Dx(), b.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	pix = make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray := color.GrayModel.Convert(rgba.RGBAAt(x, y)).(color.Gray)
			pix[y*width+x] = gray.Y
		}
	}
	return pix, width, height
}
