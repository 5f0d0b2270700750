// Package fault 对称分量法故障计算.
//
// 各故障先在以特殊相为参考(0°)的局部坐标中求解, 再旋转回绝对相别.
// 单相接地的特殊相为故障相, 两相短路的特殊相为健全相.
package fault

import (
	"fmt"
	"relaycalc/phasor"
	"relaycalc/types"
)

// Solve 计算指定故障下故障点的三相电流和电压
func Solve(net NetworkParameters, ft FaultType) (PhaseQuantities, error) {
	if err := net.Validate(); err != nil {
		return PhaseQuantities{}, err
	}
	va := phasor.FromPolar(net.PhaseVoltage(), 0)
	switch f := ft.(type) {
	case ThreePhase:
		return threePhase(net, va)
	case SinglePhaseToGround:
		q, err := phaseToGround(net, va)
		if err != nil {
			return q, err
		}
		return shift(q, f.Phase), nil
	case PhaseToPhase:
		q, err := phaseToPhase(net, va)
		if err != nil {
			return q, err
		}
		return shift(q, f.Pair.Healthy()), nil
	}
	return PhaseQuantities{}, fmt.Errorf("unknown fault type %v: %w", ft, types.ErrInvalidInput)
}

// threePhase 三相短路, 只有正序电流
func threePhase(net NetworkParameters, va phasor.Phasor) (PhaseQuantities, error) {
	i1, err := va.Div(net.Z1.Add(phasor.New(net.FaultResistance, 0)))
	if err != nil {
		return PhaseQuantities{}, fmt.Errorf("three-phase loop Z1+Rf: %w", err)
	}
	i := Sequence{Positive: i1}.ToPhase()
	ua := va.Sub(i[0].Mul(net.Z1))
	u := [3]phasor.Phasor{ua, ua.Mul(phasor.A2), ua.Mul(phasor.A)}
	return fromArrays(i, u), nil
}

// phaseToGround A 相接地, 三序电流相等
func phaseToGround(net NetworkParameters, va phasor.Phasor) (PhaseQuantities, error) {
	rf := net.FaultResistance
	loop := net.Z1.Scale(2).Add(net.Z0).Add(phasor.New(3*rf, 0))
	i012, err := va.Div(loop)
	if err != nil {
		return PhaseQuantities{}, fmt.Errorf("ground loop Z1+Z2+Z0+3Rf: %w", err)
	}
	vn := i012.Mul(net.Z0).Neg()
	return PhaseQuantities{
		Ia: i012.Scale(3),
		Ua: i012.Scale(3 * rf),
		Ub: va.Mul(phasor.A2).Add(vn),
		Uc: va.Mul(phasor.A).Add(vn),
	}, nil
}

// phaseToPhase B-C 相间短路, 正负序电流大小相等方向相反
func phaseToPhase(net NetworkParameters, va phasor.Phasor) (PhaseQuantities, error) {
	loop := net.Z1.Scale(2).Add(phasor.New(net.FaultResistance, 0))
	i1, err := va.Div(loop)
	if err != nil {
		return PhaseQuantities{}, fmt.Errorf("phase loop Z1+Z2+Rf: %w", err)
	}
	i := Sequence{Positive: i1, Negative: i1.Neg()}.ToPhase()
	u := [3]phasor.Phasor{
		va,
		va.Mul(phasor.A2).Sub(i[1].Mul(net.Z1)),
		va.Mul(phasor.A).Sub(i[2].Mul(net.Z1)),
	}
	return fromArrays(i, u), nil
}

// shift 局部坐标结果映射到绝对相别, 参考相 ref 的电源角为 -120°·ref
func shift(q PhaseQuantities, ref Phase) PhaseQuantities {
	if ref == PhaseA {
		return q
	}
	deg := -120 * float64(ref)
	li, lu := q.Currents(), q.Voltages()
	var i, u [3]phasor.Phasor
	for j := 0; j < 3; j++ {
		k := (int(ref) + j) % 3
		i[k] = rotate(li[j], deg)
		u[k] = rotate(lu[j], deg)
	}
	return fromArrays(i, u)
}

// rotate 零相量保持精确为零
func rotate(p phasor.Phasor, deg float64) phasor.Phasor {
	if p == phasor.Zero {
		return p
	}
	return p.Rotate(deg)
}
