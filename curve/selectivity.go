package curve

import (
	"relaycalc/types"
)

// Coordination 同一电流下上下级继电器的配合情况
type Coordination struct {
	Current     float64        `json:"current"`
	Upstream    TripEvaluation `json:"upstream"`
	Downstream  TripEvaluation `json:"downstream"`
	Margin      float64        `json:"margin"`      // 上级动作时间减下级动作时间, 两者都动作时有效
	Coordinated bool           `json:"coordinated"` // 下级先于上级至少 GradingMargin 动作, 或上级不动作
}

// Selectivity 判断电流 current 下上下级是否满足选择性
func Selectivity(upstream, downstream Spec, current float64) (Coordination, error) {
	up, err := Evaluate(upstream, current)
	if err != nil {
		return Coordination{}, err
	}
	down, err := Evaluate(downstream, current)
	if err != nil {
		return Coordination{}, err
	}
	return Coordinate(current, up, down), nil
}

// Coordinate 由上下级已有的动作判定结果计算配合情况
// 上下级可能经不同电流互感器看到不同的二次电流, current 为共同的一次电流
func Coordinate(current float64, up, down TripEvaluation) Coordination {
	c := Coordination{Current: current, Upstream: up, Downstream: down}
	switch {
	case !up.IsTrip:
		c.Coordinated = true
	case !down.IsTrip:
		// 上级动作而下级不动作, 越级
		c.Coordinated = false
	default:
		c.Margin = up.TripTime - down.TripTime
		c.Coordinated = c.Margin >= types.GradingMargin
	}
	return c
}

// SelectivityOverRange 在一组电流下逐点检查配合, 返回全部结果和首个失配点下标(无失配为 -1)
func SelectivityOverRange(upstream, downstream Spec, currents []float64) ([]Coordination, int, error) {
	result := make([]Coordination, len(currents))
	first := -1
	for i, cur := range currents {
		c, err := Selectivity(upstream, downstream, cur)
		if err != nil {
			return nil, -1, err
		}
		result[i] = c
		if !c.Coordinated && first < 0 {
			first = i
		}
	}
	return result, first, nil
}
