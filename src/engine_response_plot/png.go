package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ------------------------------------------------------------
// PNG rendering (tightly cropped)
// ------------------------------------------------------------

// cropMargin is the blank border kept around the content, in inches.
const cropMargin = 0.1

// Render draws the figure on a raster canvas and crops it to its content.
func (fig *Figure) Render() image.Image {
	c := vgimg.NewWith(
		vgimg.UseWH(fig.Width, fig.Height),
		vgimg.UseDPI(fig.DPI),
		vgimg.UseBackgroundColor(color.White),
	)
	fig.Draw(draw.New(c))

	img := c.Image()
	pad := int(cropMargin * float64(fig.DPI))
	r := contentBounds(img, color.White, pad)

	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(r)
	}
	return img
}

// contentBounds returns the smallest rectangle holding every pixel that
// differs from bg, grown by pad pixels and clipped to the image. An image
// with no content returns its full bounds.
func contentBounds(img image.Image, bg color.Color, pad int) image.Rectangle {
	b := img.Bounds()
	br, bgc, bb, ba := bg.RGBA()

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == br && g == bgc && bl == bb && a == ba {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX {
		return b
	}
	return image.Rect(minX-pad, minY-pad, maxX+1+pad, maxY+1+pad).Intersect(b)
}

// SaveFigurePNG renders fig and writes it to filename.
func SaveFigurePNG(fig *Figure, filename string) error {
	img := fig.Render()
	return writeFile(filename, func(w io.Writer) error {
		return encodePNG(w, img)
	})
}

// encodePNG writes img as PNG through a buffered writer.
func encodePNG(w io.Writer, img image.Image) error {
	bw := bufio.NewWriter(w)
	if err := png.Encode(bw, img); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

// writeFile creates filename and fills it with write. If write or the final
// close fails, the partial file is removed.
func writeFile(filename string, write func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}

	err = write(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("cannot close png: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(filename)
		return err
	}
	return nil
}
