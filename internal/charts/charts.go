// Package charts renders the PNG charts shown on the statistics pages.
package charts

import (
	"bytes"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	width  = 800
	height = 400
)

var (
	lineColor  = drawing.ColorFromHex("2e7d32")
	dotColor   = drawing.ColorFromHex("f9a825")
	barColor   = drawing.ColorFromHex("1565c0")
	zeroColor  = drawing.ColorFromHex("9e9e9e")
	textColor  = drawing.ColorFromHex("212121")
	background = drawing.ColorWhite
)

// Point is one labelled value on a chart.
type Point struct {
	Label string
	Value float64
}

// PlayerImprovement plots a player's average per cycle game by game.
func PlayerImprovement(points []Point) ([]byte, error) {
	if len(points) == 0 {
		return placeholder("No games played yet")
	}
	return lineChart(points, "Game", "Average per cycle", false)
}

// OpponentDifferential plots the score difference against one opponent over time.
// Zero is always drawn so wins and losses read above and below it.
func OpponentDifferential(points []Point) ([]byte, error) {
	if len(points) == 0 {
		return placeholder("No games against this opponent")
	}
	return lineChart(points, "Game", "Score difference", true)
}

// TopPlayers draws a bar per player.
func TopPlayers(points []Point) ([]byte, error) {
	if len(points) == 0 {
		return placeholder("No player scores yet")
	}

	bars := make([]chart.Value, len(points))
	maxValue := 0.0
	for i, p := range points {
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		maxValue = math.Max(maxValue, p.Value)
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	graph := chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   60,
		Background: chart.Style{FillColor: background},
		Canvas:     chart.Style{FillColor: background},
		XAxis:      chart.Style{FontColor: textColor},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor},
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func lineChart(points []Point, xName, yName string, withZero bool) ([]byte, error) {
	xValues := make([]float64, len(points))
	yValues := make([]float64, len(points))
	// go-chart takes the x range from the ticks when they are set, so
	// unlabelled ticks mark the padded edges. A single game still gets a
	// non-zero range this way.
	xMax := float64(len(points)) + 0.5
	ticks := make([]chart.Tick, 0, len(points)+2)
	ticks = append(ticks, chart.Tick{Value: 0.5})
	minY, maxY := points[0].Value, points[0].Value
	for i, p := range points {
		xValues[i] = float64(i + 1)
		yValues[i] = p.Value
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: p.Label})
		minY = math.Min(minY, p.Value)
		maxY = math.Max(maxY, p.Value)
	}
	ticks = append(ticks, chart.Tick{Value: xMax})
	if withZero {
		minY = math.Min(minY, 0)
		maxY = math.Max(maxY, 0)
	}
	pad := (maxY - minY) * 0.1
	if pad == 0 {
		pad = 1
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    yName,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: lineColor,
				StrokeWidth: 2,
				DotWidth:    4,
				DotColor:    dotColor,
			},
		},
	}
	if withZero {
		series = append(series, chart.ContinuousSeries{
			Name:    "Even",
			XValues: []float64{0.5, xMax},
			YValues: []float64{0, 0},
			Style: chart.Style{
				StrokeColor:     zeroColor,
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 4},
			},
		})
	}

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: background},
		Canvas:     chart.Style{FillColor: background},
		XAxis: chart.XAxis{
			Name:  xName,
			Style: chart.Style{FontColor: textColor},
			Range: &chart.ContinuousRange{Min: 0.5, Max: xMax},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Style: chart.Style{FontColor: textColor},
			Range: &chart.ContinuousRange{Min: minY - pad, Max: maxY + pad},
		},
		Series: series,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// placeholder renders a blank canvas with a message. The chart needs one
// visible series to render, so a transparent line is drawn underneath.
func placeholder(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:      width / 2,
		Height:     height / 2,
		Background: chart.Style{FillColor: background},
		Canvas:     chart.Style{FillColor: background},
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(textColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
