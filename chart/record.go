// Package chart 时间-电流特性曲线的记录与绘制.
package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"relaycalc"
	"relaycalc/curve"
)

// Series 一条特性曲线
type Series struct {
	Name   string        `json:"name"`
	Points []curve.Point `json:"points"`
}

// Mark 故障电流下的动作点
type Mark struct {
	Name    string  `json:"name"`
	Current float64 `json:"current"`
	Time    float64 `json:"time"`
}

// Phase 各相故障量幅值
type Phase struct {
	Name    string  `json:"name"`
	Current float64 `json:"current"`
	Voltage float64 `json:"voltage"`
}

// Record 记录曲线和故障点
type Record struct {
	Title  string   `json:"title"`
	Series []Series `json:"series"` // 特性曲线
	Marks  []Mark   `json:"marks"`  // 动作点
	Phases []Phase  `json:"phases"` // 故障相量幅值
}

// FromReport 由整定校验结果生成记录
func FromReport(r *relaycalc.Report) *Record {
	rec := &Record{Title: fmt.Sprintf("%s %.1fA", r.Fault, r.FaultCurrent)}
	for _, res := range r.Relays {
		name := res.Relay.Label()
		rec.AddCurve(name, res.Curve)
		if res.Trip.IsTrip {
			rec.AddMark(name, r.FaultCurrent, res.Trip.TripTime)
		}
	}
	q := r.Quantities
	for i, name := range []string{"A", "B", "C"} {
		rec.Phases = append(rec.Phases, Phase{
			Name:    name,
			Current: q.Currents()[i].Magnitude(),
			Voltage: q.Voltages()[i].Magnitude(),
		})
	}
	return rec
}

// AddCurve 记录曲线
func (rec *Record) AddCurve(name string, points []curve.Point) {
	rec.Series = append(rec.Series, Series{Name: name, Points: points})
}

// AddMark 记录动作点
func (rec *Record) AddMark(name string, current, time float64) {
	rec.Marks = append(rec.Marks, Mark{Name: name, Current: current, Time: time})
}

// empty 没有可绘制的点
func (rec *Record) empty() bool {
	for _, s := range rec.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// Render 格式和输出内容
func (rec *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(rec) }

func (rec *Record) Error(err error) { log.Println(err) }
