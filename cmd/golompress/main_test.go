package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeSmokePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 12, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 12; x++ {
			img.SetGray(x, y, color.Gray{Y: byte((x*17 + y*31) % 256)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestEncodeDecodeCLIRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	golz := filepath.Join(dir, "out.golz")
	out := filepath.Join(dir, "out.png")
	writeSmokePNG(t, src)

	if err := encode(src, golz, predictorNames["paeth"], false); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := decode(golz, out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	wantPix, wantW, wantH := readGrayPNG(t, src)
	gotPix, gotW, gotH := readGrayPNG(t, out)
	if wantW != gotW || wantH != gotH {
		t.Fatalf("dims = %dx%d, want %dx%d", gotW, gotH, wantW, wantH)
	}
	for i := range wantPix {
		if wantPix[i] != gotPix[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, gotPix[i], wantPix[i])
		}
	}
}

func TestEncodeEveryPredictorViaCLI(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writeSmokePNG(t, src)

	for name, predictor := range predictorNames {
		golz := filepath.Join(dir, name+".golz")
		out := filepath.Join(dir, name+".png")
		if err := encode(src, golz, predictor, false); err != nil {
			t.Fatalf("%s: encode: %v", name, err)
		}
		if err := decode(golz, out); err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
	}
}

func readGrayPNG(t *testing.T, path string) (pix []byte, width, height int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	pix = make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			pix[y*width+x] = gray.Y
		}
	}
	return pix, width, height
}
