package chart

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// 默认图片尺寸
var (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 6 * vg.Inch
)

// Plot 双对数时间-电流图
func (rec *Record) Plot() (*plot.Plot, error) {
	if rec.empty() {
		return nil, fmt.Errorf("chart %q: no curve points", rec.Title)
	}
	p := plot.New()
	p.Title.Text = rec.Title
	p.X.Label.Text = "I (A)"
	p.Y.Label.Text = "t (s)"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, s := range rec.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X, xys[j].Y = pt.Current, pt.Time
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("curve %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	// 动作点
	xys := make(plotter.XYs, 0, len(rec.Marks))
	for _, m := range rec.Marks {
		if m.Current > 0 && m.Time > 0 {
			xys = append(xys, plotter.XY{X: m.Current, Y: m.Time})
		}
	}
	if len(xys) > 0 {
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		sc.Shape = plotutil.Shape(0)
		p.Add(sc)
	}
	return p, nil
}

// WritePlot 输出图片, format 为 png svg pdf 等
func (rec *Record) WritePlot(w io.Writer, format string) error {
	p, err := rec.Plot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePlot 保存图片, 格式由扩展名决定
func (rec *Record) SavePlot(filename string) error {
	p, err := rec.Plot()
	if err != nil {
		return err
	}
	return p.Save(PlotWidth, PlotHeight, filename)
}
