package export

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/san-kum/balancesim/internal/dynamo"
	"github.com/san-kum/balancesim/internal/physics"
)

// Supported chart formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

const (
	chartWidth  = 8.0
	chartHeight = 6.0
	chartDPI    = 300
)

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(22)
	p.Title.Padding = vg.Points(12)

	p.X.Label.TextStyle.Font.Size = vg.Points(18)
	p.Y.Label.TextStyle.Font.Size = vg.Points(18)
	p.X.Label.Padding = vg.Points(10)
	p.Y.Label.Padding = vg.Points(10)

	p.X.LineStyle.Width = vg.Points(2.2)
	p.Y.LineStyle.Width = vg.Points(2.2)
	p.X.Padding = vg.Points(20)
	p.Y.Padding = vg.Points(20)

	p.X.Tick.Label.Font.Size = vg.Points(14)
	p.Y.Tick.Label.Font.Size = vg.Points(14)

	p.X.Tick.Marker = limitedTicker(8, "%.2f")
	p.Y.Tick.Marker = limitedTicker(8, "%.3f")

	p.Add(plotter.NewGrid())
}

func savePlot(p *plot.Plot, filename, format string) error {
	w := vg.Length(chartWidth) * vg.Inch
	h := vg.Length(chartHeight) * vg.Inch

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)

	switch format {
	case FormatPNG:
		c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(chartDPI))
		p.Draw(draw.New(c))
		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
			return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
		}
	case FormatSVG:
		c := vgsvg.New(w, h)
		p.Draw(draw.New(c))
		if _, err := c.WriteTo(bw); err != nil {
			return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
		}
	default:
		return fmt.Errorf("unknown chart format: %s", format)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
	}
	return nil
}

func linePlot(title, xlabel, ylabel string, xs, ys []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	stylePlot(p)

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(3.0)
	p.Add(line)
	return p, nil
}

// angleLimits marks the station's mechanical stops.
func angleLimits(p *plot.Plot, t0, t1 float64) error {
	for _, lim := range []float64{physics.MaxAngle, -physics.MaxAngle} {
		l, err := plotter.NewLine(plotter.XYs{{X: t0, Y: lim}, {X: t1, Y: lim}})
		if err != nil {
			return err
		}
		l.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
	}
	return nil
}

// SaveCharts writes angle, position and phase charts for frames into dir
// and returns the paths written.
func SaveCharts(dir string, frames []dynamo.Frame, format string) ([]string, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to plot")
	}
	if format != FormatPNG && format != FormatSVG {
		return nil, fmt.Errorf("unknown chart format: %s", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
	}

	t := make([]float64, len(frames))
	x := make([]float64, len(frames))
	theta := make([]float64, len(frames))
	for i, f := range frames {
		t[i] = f.Time
		x[i] = f.Position
		theta[i] = f.Angle
	}

	angle, err := linePlot("Charge Station Angle", "time (s)", "angle (rad)", t, theta)
	if err != nil {
		return nil, err
	}
	if err := angleLimits(angle, t[0], t[len(t)-1]); err != nil {
		return nil, err
	}

	position, err := linePlot("Robot Position", "time (s)", "x (m)", t, x)
	if err != nil {
		return nil, err
	}

	phase, err := linePlot("Position vs Angle", "x (m)", "angle (rad)", x, theta)
	if err != nil {
		return nil, err
	}

	charts := []struct {
		name string
		p    *plot.Plot
	}{
		{"angle", angle},
		{"position", position},
		{"phase", phase},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.name+"."+format)
		if err := savePlot(c.p, path, format); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
