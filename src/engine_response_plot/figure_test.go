package main

import (
	"image"
	"errors"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

func sineTable(t *testing.T, n int) *Table {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("t;x;x_d;x_dd;x_ddd;F\n")
	for i := 0; i < n; i++ {
		tt := float64(i) * 0.01
		f := math.Exp(-0.5*tt) * math.Sin(3*tt)
		sb.WriteString(strings.Join([]string{
			ftoa(tt), ftoa(1 - math.Exp(-tt)), ftoa(math.Exp(-tt)),
			ftoa(-math.Exp(-tt)), ftoa(math.Exp(-tt)), ftoa(f),
		}, ";"))
		sb.WriteString("\n")
	}
	tb, err := ReadTable(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return tb
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// pixelSize converts the figure size to pixels at its DPI.
func pixelSize(fig *Figure) (w, h int) {
	scale := float64(fig.DPI) / float64(vg.Inch)
	return int(float64(fig.Width)*scale + 0.5), int(float64(fig.Height)*scale + 0.5)
}

func TestNewFigurePanels(t *testing.T) {
	tests := []struct {
		name string
		rows int
	}{
		{"single row", 1},
		{"two rows", 2},
		{"long run", 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := NewFigure(sineTable(t, tt.rows))
			require.NoError(t, err)

			panels := fig.Panels()
			require.Len(t, panels, 6)

			titles := make([]string, len(panels))
			for i, p := range panels {
				titles[i] = p.Title.Text
				assert.Equal(t, timeLabel, p.X.Label.Text)
			}
			assert.Equal(t, []string{
				"Engine speed",
				"First derivative (rate of change)",
				"Second derivative (acceleration)",
				"Third derivative",
				"External disturbance F(t)",
				"System response to disturbance",
			}, titles)
		})
	}
}

func TestResponsePanelTwinAxis(t *testing.T) {
	tb := sineTable(t, 200)
	p, err := newResponsePanel(tb)
	require.NoError(t, err)

	xLo, xHi := paddedRange(tb.X)
	assert.Equal(t, xLo, p.Y.Min)
	assert.Equal(t, xHi, p.Y.Max)
	assert.Equal(t, colorBlue, p.Y.Tick.Label.Color)
}

func TestResponseLegendFrame(t *testing.T) {
	tb := sineTable(t, 20)
	xLine, err := newLine(tb.T, tb.X, colorBlue)
	require.NoError(t, err)
	fLine, err := newLine(tb.T, tb.F, colorBlack)
	require.NoError(t, err)
	l := responseLegend(xLine, fLine)

	c := draw.Canvas{Rectangle: vg.Rectangle{Max: vg.Point{X: 300, Y: 200}}}
	r := l.frame(c)

	// Upper right corner, inside the data area.
	assert.InDelta(t, 300-4+3, float64(r.Max.X), 1e-9)
	assert.InDelta(t, 200-4+3, float64(r.Max.Y), 1e-9)
	assert.Less(t, float64(r.Min.X), 300.0-4-3)
	assert.Greater(t, float64(r.Min.X), 0.0)
	assert.Greater(t, float64(r.Min.Y), 100.0)
}

func TestFramedLegendCoversLines(t *testing.T) {
	const w, h = 300, 200
	img := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(72),
		vgimg.UseBackgroundColor(color.Black),
	)
	dc := draw.New(img)

	line, err := newLine([]float64{0, 1}, []float64{0, 1}, colorBlue)
	require.NoError(t, err)
	l := responseLegend(line, line)
	l.Plot(dc, nil)

	r := l.frame(dc)
	// A pixel in the padding band, away from the text and the border.
	px := int(r.Min.X + l.Pad/2)
	py := int(h - (r.Min.Y+r.Max.Y)/2)
	got := color.NRGBAModel.Convert(img.Image().At(px, py)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, got)

	outside := color.NRGBAModel.Convert(img.Image().At(2, h-2)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{A: 255}, outside)
}

func TestTwinAxisMap(t *testing.T) {
	a := newTwinAxis(-1, 1)
	host := plot.New().Y
	host.Min, host.Max = 10, 20

	got := a.Map(host, plotter.XYs{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 2, Y: 1}})
	assert.Equal(t, plotter.XYs{{X: 0, Y: 10}, {X: 1, Y: 15}, {X: 2, Y: 20}}, got)
}

func TestTwinAxisDegenerateRange(t *testing.T) {
	a := newTwinAxis(3, 3)
	assert.Equal(t, 2.0, a.Min)
	assert.Equal(t, 4.0, a.Max)

	a = newTwinAxis(5, -5)
	assert.Equal(t, -5.0, a.Min)
	assert.Equal(t, 5.0, a.Max)
}

func TestTwinAxisReservesRoom(t *testing.T) {
	a := newTwinAxis(0, 1)
	bare := a.size()
	assert.Greater(t, float64(bare), float64(a.Tick.Length))

	a.Label.Text = "F(t)"
	assert.Greater(t, float64(a.size()), float64(bare))

	boxes := a.GlyphBoxes(nil)
	require.Len(t, boxes, 1)
	assert.Equal(t, 1.0, boxes[0].X)
	assert.Equal(t, a.size(), boxes[0].Size().X)
}

func TestPaddedRange(t *testing.T) {
	lo, hi := paddedRange([]float64{0, 10, 5})
	assert.InDelta(t, -0.5, lo, 1e-12)
	assert.InDelta(t, 10.5, hi, 1e-12)

	lo, hi = paddedRange([]float64{2})
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)
}

func TestContentBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.White)
		}
	}
	assert.Equal(t, img.Bounds(), contentBounds(img, color.White, 5))

	img.Set(20, 30, color.Black)
	img.Set(60, 40, color.RGBA{R: 255, A: 255})
	assert.Equal(t, image.Rect(20, 30, 61, 41), contentBounds(img, color.White, 0))
	assert.Equal(t, image.Rect(15, 25, 66, 46), contentBounds(img, color.White, 5))

	img.Set(1, 78, color.Black)
	assert.Equal(t, image.Rect(0, 25, 66, 80), contentBounds(img, color.White, 5))
}

func TestFigureRender(t *testing.T) {
	for _, rows := range []int{1, 300} {
		fig, err := NewFigure(sineTable(t, rows))
		require.NoError(t, err)

		img := fig.Render()
		w, h := pixelSize(fig)
		b := img.Bounds()

		assert.Greater(t, b.Dx(), w/2, "rows=%d", rows)
		assert.Greater(t, b.Dy(), h/2, "rows=%d", rows)
		assert.LessOrEqual(t, b.Dx(), w, "rows=%d", rows)
		assert.LessOrEqual(t, b.Dy(), h, "rows=%d", rows)
	}
}

func TestSaveFigurePNG(t *testing.T) {
	fig, err := NewFigure(sineTable(t, 50))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), outputFile)
	require.NoError(t, SaveFigurePNG(fig, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestSaveFigurePNGUnwritable(t *testing.T) {
	fig, err := NewFigure(sineTable(t, 2))
	require.NoError(t, err)

	err = SaveFigurePNG(fig, filepath.Join(t.TempDir(), "missing", outputFile))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.after {
		n := w.after
		w.after = 0
		return n, errDiskFull
	}
	w.after -= len(p)
	return len(p), nil
}

func TestEncodePNGWriteError(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	err := encodePNG(&failingWriter{after: 16}, img)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestWriteFileRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), outputFile)

	err := writeFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("\x89PNG truncated"))
		return errDiskFull
	})
	assert.ErrorIs(t, err, errDiskFull)
	assert.NoFileExists(t, path)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), outputFile)

	require.NoError(t, writeFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("ok"))
		return err
	}))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(got))
}
