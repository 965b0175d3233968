package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
	WrapMirror                 // Tile, flipping every other copy
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// MaxTextureSize bounds the longer side of a texture built from an image.
// A terminal frame is a few hundred pixels across, so larger images are
// scaled down on conversion.
const MaxTextureSize = 512

// Texture is an RGBA image sampled by the rasterizer.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // Row-major, top row first
	WrapU  WrapMode
	WrapV  WrapMode
	Filter FilterMode
}

// NewTexture creates a transparent texture that repeats in both directions
// and samples the nearest texel.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from a PNG, JPEG, WebP or BMP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage converts img to a texture no larger than MaxTextureSize
// on either side, keeping its aspect ratio.
func TextureFromImage(img image.Image) *Texture {
	src := img.Bounds()
	w, h := fitSize(src.Dx(), src.Dy(), MaxTextureSize)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	tex := NewTexture(w, h)
	for i := range tex.Pixels {
		p := dst.Pix[i*4 : i*4+4 : i*4+4]
		tex.Pixels[i] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return tex
}

// fitSize scales w x h down so neither side exceeds limit. Sides never
// drop below one pixel.
func fitSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	scale := float64(limit) / float64(max(w, h))
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for i := range tex.Pixels {
		x, y := i%width, i/width
		if (x/checkSize+y/checkSize)%2 == 0 {
			tex.Pixels[i] = c1
		} else {
			tex.Pixels[i] = c2
		}
	}
	return tex
}

// SetPixel sets a texel; writes outside the texture are dropped.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the texel at (x, y), or transparent black outside.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the color at (u, v), where v = 0 is the bottom row.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	fx := u * float64(t.Width)
	fy := (1 - v) * float64(t.Height)

	if t.Filter == FilterBilinear {
		return t.sampleBilinear(fx-0.5, fy-0.5)
	}
	x := wrapTexel(int(math.Floor(fx)), t.Width, t.WrapU)
	y := wrapTexel(int(math.Floor(fy)), t.Height, t.WrapV)
	return t.Pixels[y*t.Width+x]
}

// sampleBilinear blends the four texels around texel-space point (fx, fy).
func (t *Texture) sampleBilinear(fx, fy float64) Color {
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0f, fy-y0f
	x0, y0 := int(x0f), int(y0f)

	xa := wrapTexel(x0, t.Width, t.WrapU)
	xb := wrapTexel(x0+1, t.Width, t.WrapU)
	ya := wrapTexel(y0, t.Height, t.WrapV)
	yb := wrapTexel(y0+1, t.Height, t.WrapV)

	row0, row1 := t.Pixels[ya*t.Width:], t.Pixels[yb*t.Width:]
	top := lerpColor(row0[xa], row0[xb], tx)
	bot := lerpColor(row1[xa], row1[xb], tx)
	return lerpColor(top, bot, ty)
}

// wrapTexel folds texel index i into [0, size) according to mode.
func wrapTexel(i, size int, mode WrapMode) int {
	switch mode {
	case WrapClamp:
		return min(max(i, 0), size-1)
	case WrapMirror:
		period := 2 * size
		i %= period
		if i < 0 {
			i += period
		}
		if i >= size {
			i = period - 1 - i
		}
		return i
	default:
		i %= size
		if i < 0 {
			i += size
		}
		return i
	}
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// MultiplyColor scales the RGB channels by intensity, saturating at 255.
func MultiplyColor(c Color, intensity float64) Color {
	scale := func(x uint8) uint8 {
		return uint8(math.Min(255, float64(x)*intensity))
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// ModulateColor multiplies two colors channel by channel (texel times
// vertex color).
func ModulateColor(a, b Color) Color {
	mul := func(x, y uint8) uint8 {
		return uint8(int(x) * int(y) / 255)
	}
	return Color{R: mul(a.R, b.R), G: mul(a.G, b.G), B: mul(a.B, b.B), A: mul(a.A, b.A)}
}
