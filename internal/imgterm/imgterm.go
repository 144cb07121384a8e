// Package imgterm draws raster images as terminal text using upper half
// blocks, two image rows per cell, in truecolor.
package imgterm

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"
	reset     = "\x1b[m"
)

// Converter decodes and scales image files for display.
type Converter struct {
	Scaler draw.Scaler
}

func New() *Converter {
	return &Converter{Scaler: draw.CatmullRom}
}

// Convert draws the image at path into at most maxCols by maxRows cells,
// keeping its aspect ratio. A zero limit leaves that axis free.
func (c *Converter) Convert(path string, maxCols, maxRows int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	b := src.Bounds()
	cols, rows := Fit(b.Dx(), b.Dy(), maxCols, maxRows)
	if cols == 0 || rows == 0 {
		return "", fmt.Errorf("decode %s: empty image", path)
	}
	return Render(c.scale(src, cols, rows*2)), nil
}

func (c *Converter) scale(src image.Image, w, h int) *image.RGBA {
	scaler := c.Scaler
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Fit sizes a w by h pixel image in cells. A cell is about twice as tall as
// it is wide, so one cell row holds two pixel rows.
func Fit(w, h, maxCols, maxRows int) (cols, rows int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	switch {
	case maxCols > 0:
		cols = maxCols
	case maxRows > 0:
		cols = maxRows * 2 * w / h
	default:
		cols = w
	}
	cols = max(1, cols)
	rows = (cols*h + w) / (2 * w)
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
		cols = max(1, rows*2*w/h)
	}
	return cols, max(1, rows)
}

// Render draws img cell by cell. Odd heights leave the last half row empty.
func Render(img image.Image) string {
	b := img.Bounds()
	var out strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.At(x, y)
			var bottom color.Color = color.Transparent
			if y+1 < b.Max.Y {
				bottom = img.At(x, y+1)
			}
			out.WriteString(cell(top, bottom))
		}
		out.WriteString(reset)
		if y+2 < b.Max.Y {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func cell(top, bottom color.Color) string {
	tr, tg, tb, topOpaque := rgb(top)
	br, bg, bb, bottomOpaque := rgb(bottom)
	switch {
	case topOpaque && bottomOpaque:
		return fmt.Sprintf("\x1b[38;2;%d;%d;%d;48;2;%d;%d;%dm%s", tr, tg, tb, br, bg, bb, upperHalf)
	case topOpaque:
		return fmt.Sprintf("\x1b[49;38;2;%d;%d;%dm%s", tr, tg, tb, upperHalf)
	case bottomOpaque:
		return fmt.Sprintf("\x1b[49;38;2;%d;%d;%dm%s", br, bg, bb, lowerHalf)
	default:
		return reset + " "
	}
}

func rgb(c color.Color) (r, g, b uint8, opaque bool) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B, n.A >= 0x80
}
