// Package phasor 工频相量(复数)运算, 所有运算返回新值, 无共享状态.
package phasor

import (
	"encoding/json"
	"fmt"
	"math"
	"relaycalc/types"
)

// Phasor 直角坐标形式相量
type Phasor struct {
	Re float64 // 实部
	Im float64 // 虚部
}

// 常用相量
var (
	Zero = Phasor{}
	One  = Phasor{Re: 1}
	A    = FromPolar(1, 120) // 旋转算子 a = 1∠120°
	A2   = FromPolar(1, 240) // 旋转算子 a² = 1∠240°
)

// New 直角坐标构造
func New(re, im float64) Phasor { return Phasor{Re: re, Im: im} }

// FromPolar 极坐标构造, 角度单位为度
func FromPolar(magnitude, angleDegrees float64) Phasor {
	s, c := math.Sincos(angleDegrees * math.Pi / 180)
	return Phasor{Re: magnitude * c, Im: magnitude * s}
}

// FromComplex 由内置复数构造
func FromComplex(c complex128) Phasor { return Phasor{Re: real(c), Im: imag(c)} }

// Complex 转换为内置复数
func (p Phasor) Complex() complex128 { return complex(p.Re, p.Im) }

// Add 加法
func (p Phasor) Add(q Phasor) Phasor { return Phasor{Re: p.Re + q.Re, Im: p.Im + q.Im} }

// Sub 减法
func (p Phasor) Sub(q Phasor) Phasor { return Phasor{Re: p.Re - q.Re, Im: p.Im - q.Im} }

// Mul 乘法
func (p Phasor) Mul(q Phasor) Phasor {
	return Phasor{
		Re: p.Re*q.Re - p.Im*q.Im,
		Im: p.Re*q.Im + p.Im*q.Re,
	}
}

// Div 除法, 除数模为零时返回 ErrDivisionByZero
func (p Phasor) Div(q Phasor) (Phasor, error) {
	d := q.Re*q.Re + q.Im*q.Im
	if q.IsZero() {
		return Zero, fmt.Errorf("phasor %v / %v: %w", p, q, types.ErrDivisionByZero)
	}
	return Phasor{
		Re: (p.Re*q.Re + p.Im*q.Im) / d,
		Im: (p.Im*q.Re - p.Re*q.Im) / d,
	}, nil
}

// Scale 实数缩放
func (p Phasor) Scale(k float64) Phasor { return Phasor{Re: p.Re * k, Im: p.Im * k} }

// Neg 取反
func (p Phasor) Neg() Phasor { return Phasor{Re: -p.Re, Im: -p.Im} }

// Rotate 旋转指定角度(度)
func (p Phasor) Rotate(angleDegrees float64) Phasor { return p.Mul(FromPolar(1, angleDegrees)) }

// Magnitude 模 sqrt(re²+im²)
func (p Phasor) Magnitude() float64 { return math.Sqrt(p.Re*p.Re + p.Im*p.Im) }

// AngleDegrees 辐角 atan2(im, re), 单位度, 范围 (-180, 180]
func (p Phasor) AngleDegrees() float64 { return math.Atan2(p.Im, p.Re) * 180 / math.Pi }

// IsZero 模小于容差
func (p Phasor) IsZero() bool { return p.Magnitude() < types.Tolerance }

// Equal 在容差内相等
func (p Phasor) Equal(q Phasor, tol float64) bool { return p.Sub(q).Magnitude() <= tol }

// String 极坐标显示
func (p Phasor) String() string {
	return fmt.Sprintf("%.4g∠%.2f°", p.Magnitude(), p.AngleDegrees())
}

// phasorJSON 序列化格式, 同时给出直角与极坐标
type phasorJSON struct {
	Re  *float64 `json:"re,omitempty"`
	Im  *float64 `json:"im,omitempty"`
	Mag *float64 `json:"mag,omitempty"`
	Deg *float64 `json:"deg,omitempty"`
}

// MarshalJSON 输出 re im mag deg
func (p Phasor) MarshalJSON() ([]byte, error) {
	mag, deg := p.Magnitude(), p.AngleDegrees()
	return json.Marshal(phasorJSON{Re: &p.Re, Im: &p.Im, Mag: &mag, Deg: &deg})
}

// UnmarshalJSON 接受直角坐标 {re, im} 或极坐标 {mag, deg}
func (p *Phasor) UnmarshalJSON(data []byte) error {
	var v phasorJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Re == nil && v.Im == nil && v.Mag != nil {
		var deg float64
		if v.Deg != nil {
			deg = *v.Deg
		}
		*p = FromPolar(*v.Mag, deg)
		return nil
	}
	*p = Phasor{}
	if v.Re != nil {
		p.Re = *v.Re
	}
	if v.Im != nil {
		p.Im = *v.Im
	}
	return nil
}
