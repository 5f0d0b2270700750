package fault

import (
	"fmt"
	"math"
	"relaycalc/phasor"
	"relaycalc/types"
	"strings"
)

// Phase 相别
type Phase uint8

const (
	PhaseA Phase = iota // A 相
	PhaseB              // B 相
	PhaseC              // C 相
)

var phaseName = [...]string{"A", "B", "C"}

func (p Phase) String() string {
	if int(p) < len(phaseName) {
		return phaseName[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// ParsePhase 解析相别名称
func ParsePhase(s string) (Phase, error) {
	for i, n := range phaseName {
		if strings.EqualFold(s, n) {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("phase %q: %w", s, types.ErrInvalidInput)
}

// Pair 相间故障的两相
type Pair uint8

const (
	PairBC Pair = iota // B-C 相间, A 相健全
	PairCA             // C-A 相间, B 相健全
	PairAB             // A-B 相间, C 相健全
)

var pairName = [...]string{"BC", "CA", "AB"}

func (p Pair) String() string {
	if int(p) < len(pairName) {
		return pairName[p]
	}
	return fmt.Sprintf("Pair(%d)", uint8(p))
}

// Healthy 健全相
func (p Pair) Healthy() Phase { return Phase(p) }

// ParsePair 解析相间名称, 顺序无关
func ParsePair(s string) (Pair, error) {
	s = strings.ToUpper(s)
	for i, n := range pairName {
		if s == n || s == string([]byte{n[1], n[0]}) {
			return Pair(i), nil
		}
	}
	return 0, fmt.Errorf("phase pair %q: %w", s, types.ErrInvalidInput)
}

// FaultType 故障类型, 只能是 ThreePhase PhaseToPhase SinglePhaseToGround 之一
type FaultType interface {
	fmt.Stringer
	faultType()
}

// ThreePhase 三相短路
type ThreePhase struct{}

// PhaseToPhase 两相短路
type PhaseToPhase struct{ Pair Pair }

// SinglePhaseToGround 单相接地
type SinglePhaseToGround struct{ Phase Phase }

func (ThreePhase) faultType()          {}
func (PhaseToPhase) faultType()        {}
func (SinglePhaseToGround) faultType() {}

func (ThreePhase) String() string            { return "3P" }
func (f PhaseToPhase) String() string        { return "PP-" + f.Pair.String() }
func (f SinglePhaseToGround) String() string { return "PG-" + f.Phase.String() }

// ParseFaultType 解析故障类型, kind 为 3P PP PG, arg 为相别或相间
// 也接受 "PP-BC" "PG-A" 形式的单一字符串
func ParseFaultType(kind, arg string) (FaultType, error) {
	kind = strings.ToUpper(strings.TrimSpace(kind))
	if k, a, ok := strings.Cut(kind, "-"); ok && arg == "" {
		kind, arg = k, a
	}
	switch kind {
	case "3P", "3PH", "ABC":
		return ThreePhase{}, nil
	case "PP", "LL":
		if arg == "" {
			return PhaseToPhase{Pair: PairBC}, nil
		}
		pair, err := ParsePair(arg)
		if err != nil {
			return nil, err
		}
		return PhaseToPhase{Pair: pair}, nil
	case "PG", "SLG", "LG":
		if arg == "" {
			return SinglePhaseToGround{Phase: PhaseA}, nil
		}
		phase, err := ParsePhase(arg)
		if err != nil {
			return nil, err
		}
		return SinglePhaseToGround{Phase: phase}, nil
	}
	return nil, fmt.Errorf("fault type %q: %w", kind, types.ErrInvalidInput)
}

// NetworkParameters 故障点看进去的戴维南等值电源
// 正序与负序阻抗视为相等
type NetworkParameters struct {
	LineVoltage     float64       `json:"lineVoltage"`     // 线电压有效值(V)
	Z1              phasor.Phasor `json:"z1"`              // 正序阻抗(Ω)
	Z0              phasor.Phasor `json:"z0"`              // 零序阻抗(Ω)
	FaultResistance float64       `json:"faultResistance"` // 过渡电阻(Ω)
}

// PhaseVoltage 相电压有效值 Vph = U / √3
func (n NetworkParameters) PhaseVoltage() float64 { return n.LineVoltage / math.Sqrt(3) }

// Validate 参数检查
func (n NetworkParameters) Validate() error {
	switch {
	case !finite(n.LineVoltage) || n.LineVoltage <= 0:
		return fmt.Errorf("line voltage %v must be positive: %w", n.LineVoltage, types.ErrInvalidInput)
	case !finite(n.FaultResistance) || n.FaultResistance < 0:
		return fmt.Errorf("fault resistance %v must not be negative: %w", n.FaultResistance, types.ErrInvalidInput)
	case !finite(n.Z1.Re, n.Z1.Im) || n.Z1.Re < 0:
		return fmt.Errorf("positive-sequence impedance %v: %w", n.Z1, types.ErrInvalidInput)
	case !finite(n.Z0.Re, n.Z0.Im) || n.Z0.Re < 0:
		return fmt.Errorf("zero-sequence impedance %v: %w", n.Z0, types.ErrInvalidInput)
	}
	return nil
}

func finite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// PhaseQuantities 故障点三相电流电压
type PhaseQuantities struct {
	Ia phasor.Phasor `json:"ia"`
	Ib phasor.Phasor `json:"ib"`
	Ic phasor.Phasor `json:"ic"`
	Ua phasor.Phasor `json:"ua"`
	Ub phasor.Phasor `json:"ub"`
	Uc phasor.Phasor `json:"uc"`
}

// Currents 按 A B C 顺序返回电流
func (q PhaseQuantities) Currents() [3]phasor.Phasor { return [3]phasor.Phasor{q.Ia, q.Ib, q.Ic} }

// Voltages 按 A B C 顺序返回电压
func (q PhaseQuantities) Voltages() [3]phasor.Phasor { return [3]phasor.Phasor{q.Ua, q.Ub, q.Uc} }

// MaxCurrent 幅值最大的相电流
func (q PhaseQuantities) MaxCurrent() (Phase, float64) {
	var (
		phase Phase
		max   float64
	)
	for i, c := range q.Currents() {
		if m := c.Magnitude(); m > max {
			phase, max = Phase(i), m
		}
	}
	return phase, max
}

func fromArrays(i, u [3]phasor.Phasor) PhaseQuantities {
	return PhaseQuantities{Ia: i[0], Ib: i[1], Ic: i[2], Ua: u[0], Ub: u[1], Uc: u[2]}
}
