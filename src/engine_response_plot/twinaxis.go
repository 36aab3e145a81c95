package main

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ------------------------------------------------------------
// Secondary (right-hand) y-axis
// ------------------------------------------------------------

// twinAxis is a plot.Plotter that draws a second y-axis along the right edge
// of the data area. gonum/plot has a single Y axis, so series measured on
// the twin axis are mapped onto the host axis range with Map and then added
// to the host plot like any other line.
//
// twinAxis also implements plot.GlyphBoxer: its glyph box reserves room to
// the right of the data area, which plot.Align takes into account.
type twinAxis struct {
	Min, Max float64

	Label struct {
		Text      string
		Padding   vg.Length
		TextStyle text.Style
	}

	Tick struct {
		Label     text.Style
		LineStyle draw.LineStyle
		Length    vg.Length
		Marker    plot.Ticker
	}

	LineStyle draw.LineStyle
}

// newTwinAxis returns a right-hand axis spanning [min, max]. A degenerate
// range is widened the same way gonum/plot widens its own axes.
func newTwinAxis(min, max float64) *twinAxis {
	if min > max {
		min, max = max, min
	}
	if min == max {
		min--
		max++
	}

	a := &twinAxis{Min: min, Max: max}
	a.LineStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}
	a.Label.Padding = vg.Points(5)
	a.Label.TextStyle = text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, 12),
		XAlign:  draw.XCenter,
		YAlign:  draw.YTop,
		Handler: plot.DefaultTextHandler,
	}
	a.Tick.Label = text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, 10),
		XAlign:  draw.XLeft,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	a.Tick.LineStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}
	a.Tick.Length = vg.Points(8)
	a.Tick.Marker = plot.DefaultTicks{}
	return a
}

// SetColor paints the axis label and tick labels so the axis reads as
// belonging to its series.
func (a *twinAxis) SetColor(c color.Color) {
	a.Label.TextStyle.Color = c
	a.Tick.Label.Color = c
}

// norm maps v into [0, 1] along the axis.
func (a *twinAxis) norm(v float64) float64 {
	return (v - a.Min) / (a.Max - a.Min)
}

// Map converts points measured on the twin axis into the host axis
// coordinates. host.Min and host.Max must already be final.
func (a *twinAxis) Map(host plot.Axis, xys plotter.XYs) plotter.XYs {
	out := make(plotter.XYs, len(xys))
	span := host.Max - host.Min
	for i, pt := range xys {
		out[i].X = pt.X
		out[i].Y = host.Min + a.norm(pt.Y)*span
	}
	return out
}

func (a *twinAxis) majorTicks() []plot.Tick {
	marks := a.Tick.Marker.Ticks(a.Min, a.Max)
	major := marks[:0:0]
	for _, t := range marks {
		if t.IsMinor() || t.Value < a.Min || t.Value > a.Max {
			continue
		}
		major = append(major, t)
	}
	return major
}

func (a *twinAxis) tickLabelWidth() vg.Length {
	var w vg.Length
	for _, t := range a.majorTicks() {
		w = vg.Length(math.Max(float64(w), float64(a.Tick.Label.Width(t.Label))))
	}
	return w
}

// size is the horizontal room the axis needs to the right of the data area.
func (a *twinAxis) size() vg.Length {
	w := a.Tick.Length
	if lw := a.tickLabelWidth(); lw > 0 {
		w += a.Tick.Label.Width(" ") + lw
	}
	if a.Label.Text != "" {
		w += a.Label.Padding + a.Label.TextStyle.Height(a.Label.Text)
	}
	return w
}

// Plot implements plot.Plotter. c is the host's data canvas.
func (a *twinAxis) Plot(c draw.Canvas, _ *plot.Plot) {
	x := c.Max.X
	c.StrokeLine2(a.LineStyle, x, c.Min.Y, x, c.Max.Y)

	marks := a.Tick.Marker.Ticks(a.Min, a.Max)
	for _, t := range marks {
		y := c.Y(a.norm(t.Value))
		if !c.ContainsY(y) {
			continue
		}
		l := a.Tick.Length
		if t.IsMinor() {
			l /= 2
		}
		c.StrokeLine2(a.Tick.LineStyle, x, y, x+l, y)
	}
	x += a.Tick.Length

	if lw := a.tickLabelWidth(); lw > 0 {
		x += a.Tick.Label.Width(" ")
		descent := a.Tick.Label.FontExtents().Descent
		for _, t := range a.majorTicks() {
			y := c.Y(a.norm(t.Value))
			c.FillText(a.Tick.Label, vg.Point{X: x, Y: y + descent}, t.Label)
		}
		x += lw
	}

	if a.Label.Text != "" {
		x += a.Label.Padding
		sty := a.Label.TextStyle
		sty.Rotation += math.Pi / 2
		c.FillText(sty, vg.Point{X: x, Y: c.Center().Y}, a.Label.Text)
	}
}

// GlyphBoxes implements plot.GlyphBoxer.
func (a *twinAxis) GlyphBoxes(*plot.Plot) []plot.GlyphBox {
	return []plot.GlyphBox{{
		X: 1,
		Y: 0.5,
		Rectangle: vg.Rectangle{
			Max: vg.Point{X: a.size()},
		},
	}}
}
