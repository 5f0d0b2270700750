// Package ct 电流互感器变比和接线换算.
package ct

import (
	"fmt"
	"math"
	"relaycalc/types"
	"strings"
)

// Connection 二次接线方式
type Connection uint8

const (
	Star  Connection = iota // 星形
	Delta                   // 三角形, 引入 √3
)

func (c Connection) String() string {
	if c == Delta {
		return "DELTA"
	}
	return "STAR"
}

// ParseConnection 解析接线方式
func ParseConnection(s string) (Connection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STAR", "Y", "WYE":
		return Star, nil
	case "DELTA", "D":
		return Delta, nil
	}
	return 0, fmt.Errorf("ct connection %q: %w", s, types.ErrInvalidInput)
}

// MarshalText 文本编码
func (c Connection) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText 文本解码
func (c *Connection) UnmarshalText(text []byte) (err error) {
	*c, err = ParseConnection(string(text))
	return err
}

// Factor 接线系数
func (c Connection) Factor() float64 {
	if c == Delta {
		return math.Sqrt(3)
	}
	return 1
}

// Warning 二次电流提示
type Warning uint8

const (
	WarnNone       Warning = iota // 正常
	WarnBelowFloor                // 低于测量下限
	WarnSaturation                // 饱和风险
)

func (w Warning) String() string {
	switch w {
	case WarnBelowFloor:
		return "below-measurement-floor"
	case WarnSaturation:
		return "saturation-risk"
	}
	return ""
}

// MarshalText 文本编码
func (w Warning) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// Spec 电流互感器参数
type Spec struct {
	PrimaryRated   float64    `json:"primaryRated" yaml:"primary"`
	SecondaryRated float64    `json:"secondaryRated" yaml:"secondary"`
	Connection     Connection `json:"connection" yaml:"connection"`
}

// Validate 额定值必须为正
func (s Spec) Validate() error {
	if !(s.PrimaryRated > 0) || math.IsInf(s.PrimaryRated, 0) {
		return fmt.Errorf("ct primary rating %v must be positive: %w", s.PrimaryRated, types.ErrInvalidInput)
	}
	if !(s.SecondaryRated > 0) || math.IsInf(s.SecondaryRated, 0) {
		return fmt.Errorf("ct secondary rating %v must be positive: %w", s.SecondaryRated, types.ErrInvalidInput)
	}
	return nil
}

// Ratio 变比 一次额定/二次额定
func (s Spec) Ratio() float64 { return s.PrimaryRated / s.SecondaryRated }

func (s Spec) String() string {
	return fmt.Sprintf("%g/%g %s", s.PrimaryRated, s.SecondaryRated, s.Connection)
}

// Result 换算结果
type Result struct {
	Secondary float64 `json:"secondary"` // 二次电流(A)
	Warning   Warning `json:"warning,omitempty"`
}

// ScaleToSecondary 一次电流换算为继电器看到的二次电流
// 超出测量范围只给出提示, 不作为错误
func ScaleToSecondary(s Spec, primary float64) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	if math.IsNaN(primary) || math.IsInf(primary, 0) {
		return Result{}, fmt.Errorf("primary current %v: %w", primary, types.ErrInvalidInput)
	}
	sec := primary / s.Ratio() * s.Connection.Factor()
	r := Result{Secondary: sec}
	switch mag := math.Abs(sec); {
	case mag < types.CTFloorRatio*s.SecondaryRated:
		r.Warning = WarnBelowFloor
	case mag > types.CTSaturation*s.SecondaryRated:
		r.Warning = WarnSaturation
	}
	return r, nil
}

// ToPrimary 星形接线下由二次电流还原一次电流
func ToPrimary(s Spec, secondary float64) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return secondary / s.Connection.Factor() * s.Ratio(), nil
}
