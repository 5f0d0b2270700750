package chart

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	Record
}

// Render 格式化为 HTML 页面
func (c *Charts) Render(w io.Writer) error {
	// 时间-电流曲线, 双对数坐标
	lineT := charts.NewLine()
	lineT.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "时间-电流特性",
			Subtitle: c.Title,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "I(A)",
			Type: "log",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "t(s)",
			Type: "log",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	for _, s := range c.Series {
		items := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			items[i].Value = []float64{p.Current, p.Time}
		}
		lineT.AddSeries(s.Name, items)
	}
	// 动作点
	for _, m := range c.Marks {
		lineT.AddSeries(fmt.Sprintf("%s 动作", m.Name), []opts.LineData{{
			Name:  m.Name,
			Value: []float64{m.Current, m.Time},
		}})
	}
	// 各相电流电压幅值
	barP := charts.NewBar()
	barP.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "故障点相量幅值",
			Subtitle: "各相电流(A)与电压(V)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	{
		names := make([]string, len(c.Phases))
		itemsI := make([]opts.BarData, len(c.Phases))
		itemsU := make([]opts.BarData, len(c.Phases))
		for i, p := range c.Phases {
			names[i] = p.Name
			itemsI[i].Value = p.Current
			itemsU[i].Value = p.Voltage
		}
		barP.SetXAxis(names).
			AddSeries("电流", itemsI).
			AddSeries("电压", itemsU)
	}
	// 构建界面
	page := components.NewPage()
	page.AddCharts(
		lineT,
		barP,
	)
	return page.Render(w)
}

// Save 保存 HTML 页面
func (c *Charts) Save(filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return c.Render(file)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}
