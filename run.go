package relaycalc

import (
	"fmt"
	"relaycalc/ct"
	"relaycalc/curve"
	"relaycalc/fault"

	"github.com/google/uuid"
)

// RelayResult 单台继电器的计算结果
type RelayResult struct {
	Relay     Relay                `json:"relay"`
	Secondary *ct.Result           `json:"secondary,omitempty"` // 经互感器换算的二次电流
	Applied   float64              `json:"applied"`             // 继电器实际看到的电流
	Trip      curve.TripEvaluation `json:"trip"`
	Curve     []curve.Point        `json:"curve"` // 折算到一次侧的特性曲线采样
}

// PairResult 相邻两级的配合结果
type PairResult struct {
	DownstreamID int `json:"downstreamId"` // 下级继电器 ID
	UpstreamID   int `json:"upstreamId"`   // 上级继电器 ID
	curve.Coordination
}

// Report 一次整定校验的全部输出
type Report struct {
	StudyID      uuid.UUID             `json:"studyId"`
	Fault        string                `json:"fault"`
	Quantities   fault.PhaseQuantities `json:"quantities"`
	Sequence     fault.Sequence        `json:"sequence"`        // 电流对称分量
	VoltageSeq   fault.Sequence        `json:"voltageSequence"` // 故障点电压对称分量
	FaultPhase   string                `json:"faultPhase"`   // 电流最大的相
	FaultCurrent float64               `json:"faultCurrent"` // 一次最大相电流(A)
	Relays       []RelayResult         `json:"relays"`
	Pairs        []PairResult          `json:"pairs"`
}

// Coordinated 全部相邻两级都满足配合
func (r *Report) Coordinated() bool {
	for _, p := range r.Pairs {
		if !p.Coordinated {
			return false
		}
	}
	return true
}

// Run 从头计算: 故障 -> 互感器换算 -> 动作判定 -> 配合 -> 曲线采样
func (s *Study) Run() (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	q, err := fault.Solve(s.Network, s.Fault)
	if err != nil {
		return nil, err
	}
	phase, iMax := q.MaxCurrent()
	report := &Report{
		StudyID:      s.ID,
		Fault:        s.Fault.String(),
		Quantities:   q,
		Sequence:     fault.SequenceCurrents(q),
		VoltageSeq:   fault.SequenceVoltages(q),
		FaultPhase:   phase.String(),
		FaultCurrent: iMax,
		Relays:       make([]RelayResult, 0, len(s.Relays)),
	}
	for _, r := range s.Relays {
		res, err := s.evaluate(r, iMax)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Label(), err)
		}
		report.Relays = append(report.Relays, res)
	}
	for i := 0; i+1 < len(report.Relays); i++ {
		down, up := report.Relays[i], report.Relays[i+1]
		report.Pairs = append(report.Pairs, PairResult{
			DownstreamID: down.Relay.ID,
			UpstreamID:   up.Relay.ID,
			Coordination: curve.Coordinate(iMax, up.Trip, down.Trip),
		})
	}
	return report, nil
}

// evaluate 单台继电器, primary 为一次电流
func (s *Study) evaluate(r Relay, primary float64) (RelayResult, error) {
	res := RelayResult{Relay: r, Applied: primary}
	opt := s.Sample
	spec, hasCT := s.CTs[r.CT]
	hasCT = hasCT && r.CT != 0
	if hasCT {
		sec, err := ct.ScaleToSecondary(spec, primary)
		if err != nil {
			return res, err
		}
		res.Secondary, res.Applied = &sec, sec.Secondary
		if opt.MaxCurrent != 0 {
			m, err := ct.ScaleToSecondary(spec, opt.MaxCurrent)
			if err != nil {
				return res, err
			}
			opt.MaxCurrent = m.Secondary
		}
	}
	trip, err := curve.Evaluate(r.Curve, res.Applied)
	if err != nil {
		return res, err
	}
	res.Trip = trip
	if res.Curve, err = curve.Sample(r.Curve, opt); err != nil {
		return res, err
	}
	if hasCT {
		for i := range res.Curve {
			if res.Curve[i].Current, err = ct.ToPrimary(spec, res.Curve[i].Current); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}
