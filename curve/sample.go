package curve

import (
	"fmt"
	"relaycalc/types"

	"gonum.org/v1/gonum/floats"
)

// Point 曲线采样点
type Point struct {
	Current float64 `json:"current"` // 电流(A)
	Time    float64 `json:"time"`    // 动作时间(s)
}

// SampleOptions 采样参数, 零值取 types 中的默认值
type SampleOptions struct {
	MaxCurrent float64 `json:"maxCurrent" yaml:"maxCurrent"` // 采样终点电流, 零值为 SampleMaxRatio 倍启动电流
	Count      int     `json:"count" yaml:"count"`           // 采样点数
	Linear     bool    `json:"linear" yaml:"linear"`         // 线性间隔, 默认对数间隔
	MinTime    float64 `json:"minTime" yaml:"minTime"`       // 可见时间下限
	MaxTime    float64 `json:"maxTime" yaml:"maxTime"`       // 可见时间上限
}

// withDefaults 补全默认值
func (o SampleOptions) withDefaults(s Spec) SampleOptions {
	if o.MaxCurrent == 0 {
		o.MaxCurrent = s.Pickup * types.SampleMaxRatio
	}
	if o.Count == 0 {
		o.Count = types.SampleCount
	}
	if o.MinTime == 0 {
		o.MinTime = types.SampleMinTime
	}
	if o.MaxTime == 0 {
		o.MaxTime = types.SampleMaxTime
	}
	return o
}

// Currents 在 [start, end] 内生成 n 个电流点, 2 <= n <= types.SampleMaxCount
func Currents(start, end float64, n int, linear bool) ([]float64, error) {
	if n < 2 || n > types.SampleMaxCount || !(start > 0) || !(end > start) {
		return nil, fmt.Errorf("current range [%v, %v] with %d points: %w", start, end, n, types.ErrInvalidInput)
	}
	dst := make([]float64, n)
	if linear {
		return floats.Span(dst, start, end), nil
	}
	return floats.LogSpan(dst, start, end), nil
}

// Sample 在 [1.01·Ip, MaxCurrent] 内采样曲线
// 动作时间落在可见窗口之外的点直接跳过而不截断
func Sample(s Spec, opt SampleOptions) ([]Point, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	opt = opt.withDefaults(s)
	if !(opt.MaxTime > opt.MinTime) {
		return nil, fmt.Errorf("time window [%v, %v]: %w", opt.MinTime, opt.MaxTime, types.ErrInvalidInput)
	}
	currents, err := Currents(s.Pickup*types.SampleStart, opt.MaxCurrent, opt.Count, opt.Linear)
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(currents))
	for _, i := range currents {
		e, err := Evaluate(s, i)
		if err != nil {
			return nil, err
		}
		if !e.IsTrip || e.TripTime < opt.MinTime || e.TripTime > opt.MaxTime {
			continue
		}
		points = append(points, Point{Current: i, Time: e.TripTime})
	}
	return points, nil
}
