package main

import (
	"fmt"
	"image/color"

	xfont "golang.org/x/image/font"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ------------------------------------------------------------
// Figure: 3x2 grid of panels with a shared title
// ------------------------------------------------------------

const (
	figureRows = 3
	figureCols = 2

	figureTitle = "Solution of equation (1) for the engine speed control system\n" +
		"4th-order Runge-Kutta method"

	timeLabel = "Time t (s)"
)

var (
	colorBlue    = color.RGBA{B: 255, A: 255}
	colorGreen   = color.RGBA{G: 128, A: 255}
	colorRed     = color.RGBA{R: 255, A: 255}
	colorMagenta = color.RGBA{R: 191, B: 191, A: 255}
	colorBlack   = color.RGBA{A: 255}

	// Black at 30% opacity.
	gridColor = color.NRGBA{A: 77}

	lineWidth = vg.Points(1.5)
	dashes    = []vg.Length{vg.Points(6), vg.Points(3)}
)

// Figure is the composed chart: a title above a fixed grid of panels.
type Figure struct {
	Title     string
	TitleFont text.Style

	// Width and Height are the figure size before cropping.
	Width, Height vg.Length
	DPI           int

	Tiles draw.Tiles

	panels [][]*plot.Plot
}

// panelSpec describes one single-series panel.
type panelSpec struct {
	title  string
	ylabel string
	ys     func(tb *Table) []float64
	color  color.Color
}

var singlePanels = []panelSpec{
	{"Engine speed", "x(t) - speed", func(tb *Table) []float64 { return tb.X }, colorBlue},
	{"First derivative (rate of change)", "x'(t)", func(tb *Table) []float64 { return tb.XD }, colorGreen},
	{"Second derivative (acceleration)", "x''(t)", func(tb *Table) []float64 { return tb.XDD }, colorRed},
	{"Third derivative", "x'''(t)", func(tb *Table) []float64 { return tb.XDDD }, colorMagenta},
	{"External disturbance F(t)", "F(t)", func(tb *Table) []float64 { return tb.F }, colorBlack},
}

// NewFigure builds the six panels for tb.
func NewFigure(tb *Table) (*Figure, error) {
	fig := &Figure{
		Title:  figureTitle,
		Width:  figureWidth,
		Height: figureHeight,
		DPI:    figureDPI,
		Tiles: draw.Tiles{
			Rows:      figureRows,
			Cols:      figureCols,
			PadX:      vg.Points(24),
			PadY:      vg.Points(18),
			PadLeft:   vg.Points(8),
			PadRight:  vg.Points(8),
			PadBottom: vg.Points(8),
		},
	}

	title := plot.New().Title.TextStyle
	title.Font.Size = vg.Points(14)
	title.Font.Weight = xfont.WeightBold
	fig.TitleFont = title

	panels := make([]*plot.Plot, 0, figureRows*figureCols)
	for _, spec := range singlePanels {
		p, err := newLinePanel(spec, tb)
		if err != nil {
			return nil, fmt.Errorf("panel %q: %w", spec.title, err)
		}
		panels = append(panels, p)
	}
	p, err := newResponsePanel(tb)
	if err != nil {
		return nil, fmt.Errorf("response panel: %w", err)
	}
	panels = append(panels, p)

	fig.panels = make([][]*plot.Plot, figureRows)
	for j := range fig.panels {
		fig.panels[j] = panels[j*figureCols : (j+1)*figureCols]
	}
	return fig, nil
}

// Panels returns the panels in row-major order.
func (fig *Figure) Panels() []*plot.Plot {
	out := make([]*plot.Plot, 0, figureRows*figureCols)
	for _, row := range fig.panels {
		out = append(out, row...)
	}
	return out
}

// Draw renders the title and the aligned panel grid onto dc.
func (fig *Figure) Draw(dc draw.Canvas) {
	body := dc
	if fig.Title != "" {
		top := vg.Point{X: dc.Center().X, Y: dc.Max.Y - vg.Points(6)}
		dc.FillText(fig.TitleFont, top, fig.Title)
		body.Max.Y -= fig.TitleFont.Height(fig.Title) + vg.Points(14)
	}

	canvases := plot.Align(fig.panels, fig.Tiles, body)
	for j, row := range fig.panels {
		for i, p := range row {
			p.Draw(canvases[j][i])
		}
	}
}

// newPanel returns an empty panel styled like the rest of the figure.
func newPanel(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = timeLabel
	p.Y.Label.Text = ylabel
	stylePanel(p)

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	p.Add(grid)
	return p
}

func stylePanel(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.Title.Padding = vg.Points(6)

	p.X.Label.TextStyle.Font.Size = vg.Points(10)
	p.Y.Label.TextStyle.Font.Size = vg.Points(10)
	p.X.Label.Padding = vg.Points(4)
	p.Y.Label.Padding = vg.Points(4)

	p.X.Tick.Label.Font.Size = vg.Points(9)
	p.Y.Tick.Label.Font.Size = vg.Points(9)
	p.X.Tick.Length = vg.Points(4)
	p.Y.Tick.Length = vg.Points(4)
}

func newLine(xs, ys []float64, c color.Color) (*plotter.Line, error) {
	line, err := plotter.NewLine(xyPoints(xs, ys))
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = lineWidth
	line.LineStyle.Color = c
	return line, nil
}

func xyPoints(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

func newLinePanel(spec panelSpec, tb *Table) (*plot.Plot, error) {
	p := newPanel(spec.title, spec.ylabel)
	line, err := newLine(tb.T, spec.ys(tb), spec.color)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}

// newResponsePanel plots x on the left axis and F on a right-hand twin axis,
// with one legend for both series.
func newResponsePanel(tb *Table) (*plot.Plot, error) {
	p := newPanel("System response to disturbance", "x(t)")
	p.Y.Label.TextStyle.Color = colorBlue
	p.Y.Tick.Label.Color = colorBlue

	// The host range must be fixed before F is mapped onto it.
	p.Y.Min, p.Y.Max = paddedRange(tb.X)

	xLine, err := newLine(tb.T, tb.X, colorBlue)
	if err != nil {
		return nil, err
	}

	fLo, fHi := paddedRange(tb.F)
	twin := newTwinAxis(fLo, fHi)
	twin.Label.Text = "F(t)"
	twin.Label.TextStyle.Font.Size = vg.Points(10)
	twin.Tick.Label.Font.Size = vg.Points(9)
	twin.Tick.Length = vg.Points(4)
	twin.SetColor(colorBlack)

	fLine, err := plotter.NewLine(twin.Map(p.Y, xyPoints(tb.T, tb.F)))
	if err != nil {
		return nil, err
	}
	fLine.LineStyle.Width = lineWidth
	fLine.LineStyle.Color = colorBlack
	fLine.LineStyle.Dashes = dashes

	p.Add(xLine, fLine, twin, responseLegend(xLine, fLine))
	return p, nil
}

// responseLegend lists both series of the response panel in its upper
// right corner.
func responseLegend(xLine, fLine plot.Thumbnailer) *framedLegend {
	l := newFramedLegend()
	l.TextStyle.Font.Size = vg.Points(9)
	l.XOffs = -vg.Points(4)
	l.YOffs = -vg.Points(4)
	l.Add("x(t) - speed", xLine)
	l.Add("F(t) - disturbance", fLine)
	return l
}

// framedLegend is a legend drawn as a plotter on a filled, outlined box so
// the lines underneath do not run through its text. Add it after the lines
// it covers.
type framedLegend struct {
	plot.Legend

	Fill   color.Color
	Border draw.LineStyle
	Pad    vg.Length
}

func newFramedLegend() *framedLegend {
	l := &framedLegend{
		Legend: plot.NewLegend(),
		Fill:   color.White,
		Border: draw.LineStyle{Color: color.Gray{Y: 204}, Width: vg.Points(0.8)},
		Pad:    vg.Points(3),
	}
	l.Top = true
	return l
}

// frame returns the box the legend occupies on c, grown by Pad.
func (l *framedLegend) frame(c draw.Canvas) vg.Rectangle {
	size := l.Rectangle(c).Size()

	var r vg.Rectangle
	if l.Left {
		r.Min.X = c.Min.X + l.XOffs
		r.Max.X = r.Min.X + size.X
	} else {
		r.Max.X = c.Max.X + l.XOffs
		r.Min.X = r.Max.X - size.X
	}
	if l.Top {
		r.Max.Y = c.Max.Y + l.YOffs
		r.Min.Y = r.Max.Y - size.Y
	} else {
		r.Min.Y = c.Min.Y + l.YOffs
		r.Max.Y = r.Min.Y + size.Y
	}

	r.Min.X -= l.Pad
	r.Min.Y -= l.Pad
	r.Max.X += l.Pad
	r.Max.Y += l.Pad
	return r
}

// Plot implements plot.Plotter. c is the host's data canvas.
func (l *framedLegend) Plot(c draw.Canvas, _ *plot.Plot) {
	r := l.frame(c)
	box := []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
		r.Min,
	}
	c.FillPolygon(l.Fill, box)
	c.StrokeLines(l.Border, box)
	l.Draw(c)
}

// paddedRange returns [min, max] of vs widened by 5% on each side. A constant
// series gets a unit margin instead.
func paddedRange(vs []float64) (lo, hi float64) {
	lo, hi = minMax(vs)
	span := hi - lo
	if span == 0 {
		return lo - 1, hi + 1
	}
	return lo - 0.05*span, hi + 0.05*span
}
