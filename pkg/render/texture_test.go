package render

import (
	"image"
	"image/color"
	"testing"
)

func TestWrapTexel(t *testing.T) {
	tests := []struct {
		i, repeat, clamp, mirror int
	}{
		{i: 0, repeat: 0, clamp: 0, mirror: 0},
		{i: 3, repeat: 3, clamp: 3, mirror: 3},
		{i: 4, repeat: 0, clamp: 3, mirror: 3},
		{i: 5, repeat: 1, clamp: 3, mirror: 2},
		{i: 9, repeat: 1, clamp: 3, mirror: 1},
		{i: -1, repeat: 3, clamp: 0, mirror: 0},
		{i: -5, repeat: 3, clamp: 0, mirror: 3},
	}
	for _, tt := range tests {
		if got := wrapTexel(tt.i, 4, WrapRepeat); got != tt.repeat {
			t.Errorf("repeat(%d) = %d, want %d", tt.i, got, tt.repeat)
		}
		if got := wrapTexel(tt.i, 4, WrapClamp); got != tt.clamp {
			t.Errorf("clamp(%d) = %d, want %d", tt.i, got, tt.clamp)
		}
		if got := wrapTexel(tt.i, 4, WrapMirror); got != tt.mirror {
			t.Errorf("mirror(%d) = %d, want %d", tt.i, got, tt.mirror)
		}
	}
}

func TestSampleWrapModes(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(1, 0, ColorBlue)

	tests := []struct {
		name string
		mode WrapMode
		u    float64
		want Color
	}{
		{"repeat past right", WrapRepeat, 1.25, ColorRed},
		{"repeat past left", WrapRepeat, -0.25, ColorBlue},
		{"clamp past right", WrapClamp, 1.25, ColorBlue},
		{"clamp past left", WrapClamp, -0.25, ColorRed},
		{"mirror past right", WrapMirror, 1.25, ColorBlue},
		{"mirror past left", WrapMirror, -0.25, ColorRed},
		{"inside", WrapClamp, 0.75, ColorBlue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex.WrapU = tt.mode
			if got := tex.Sample(tt.u, 0.5); got != tt.want {
				t.Errorf("Sample(%g) = %v, want %v", tt.u, got, tt.want)
			}
		})
	}
}

func TestSampleFilter(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, ColorBlack)
	tex.SetPixel(1, 0, ColorWhite)
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp

	if got := tex.Sample(0.5, 0.5); got != ColorWhite {
		t.Errorf("nearest = %v, want white", got)
	}

	tex.Filter = FilterBilinear
	got := tex.Sample(0.5, 0.5)
	if got.R != 128 || got.G != 128 || got.B != 128 || got.A != 255 {
		t.Errorf("bilinear = %v, want mid gray", got)
	}
}

func TestSampleEmptyTexture(t *testing.T) {
	if got := NewTexture(0, 0).Sample(0.5, 0.5); got != (Color{}) {
		t.Errorf("empty texture sampled %v", got)
	}
}

func TestTextureFromImageScalesDown(t *testing.T) {
	green := color.RGBA{0, 200, 0, 255}
	img := image.NewRGBA(image.Rect(0, 0, 4*MaxTextureSize, MaxTextureSize))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], []uint8{green.R, green.G, green.B, green.A})
	}

	tex := TextureFromImage(img)
	if tex.Width != MaxTextureSize || tex.Height != MaxTextureSize/4 {
		t.Fatalf("size = %dx%d, want %dx%d", tex.Width, tex.Height, MaxTextureSize, MaxTextureSize/4)
	}
	got := tex.GetPixel(10, 10)
	if absInt(int(got.G)-int(green.G)) > 1 || got.R > 1 || got.B > 1 {
		t.Errorf("pixel = %v, want %v", got, green)
	}
}

func TestTextureFromImageKeepsSmall(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 3, 5, 5))
	img.SetRGBA(4, 4, color.RGBA{1, 2, 3, 255})

	tex := TextureFromImage(img)
	if tex.Width != 3 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(2, 1); got != (Color{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("offset bounds pixel = %v", got)
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, limit  int
		wantW, wantH int
	}{
		{100, 50, 512, 100, 50},
		{1024, 512, 512, 512, 256},
		{512, 2048, 512, 128, 512},
		{4096, 1, 512, 512, 1},
	}
	for _, tt := range tests {
		w, h := fitSize(tt.w, tt.h, tt.limit)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}
