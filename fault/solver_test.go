package fault

import (
	"errors"
	"math"
	"relaycalc/phasor"
	"relaycalc/types"
	"testing"
)

// network 10kV, Z1=1+j5, Z0=3+j15
func network(rf float64) NetworkParameters {
	return NetworkParameters{
		LineVoltage:     10000,
		Z1:              phasor.New(1, 5),
		Z0:              phasor.New(3, 15),
		FaultResistance: rf,
	}
}

func abs(x float64) float64 { return math.Abs(x) }

// angleDiff 归一化到 (-180, 180]
func angleDiff(a, b phasor.Phasor) float64 {
	d := math.Mod(a.AngleDegrees()-b.AngleDegrees(), 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

func TestThreePhase(t *testing.T) {
	q, err := Solve(network(0), ThreePhase{})
	if err != nil {
		t.Fatalf("三相短路计算失败 %s", err)
	}
	if v := network(0).PhaseVoltage(); abs(v-5773.5) > 0.1 {
		t.Errorf("相电压不正确: 期望 5773.5, 实际 %v", v)
	}
	if m := q.Ia.Magnitude(); abs(m-1132.0)/1132.0 > 0.01 {
		t.Errorf("Ia 幅值不正确: 期望 1132.0, 实际 %v", m)
	}
	if d := q.Ia.AngleDegrees(); abs(d+78.7) > 0.1 {
		t.Errorf("Ia 角度不正确: 期望 -78.7, 实际 %v", d)
	}
	// 金属性短路故障点电压为零
	if m := q.Ua.Magnitude(); m > 1e-6 {
		t.Errorf("Rf=0 时 Ua 应为零, 实际 %v", m)
	}
}

func TestThreePhaseSymmetry(t *testing.T) {
	for _, rf := range []float64{0, 0.5, 2, 10} {
		q, err := Solve(network(rf), ThreePhase{})
		if err != nil {
			t.Fatalf("Rf=%v 计算失败 %s", rf, err)
		}
		for name, set := range map[string][3]phasor.Phasor{"电流": q.Currents(), "电压": q.Voltages()} {
			m := set[0].Magnitude()
			for i := 1; i < 3; i++ {
				if abs(set[i].Magnitude()-m) > 1e-6 {
					t.Errorf("Rf=%v %s幅值不等: %v %v", rf, name, m, set[i].Magnitude())
				}
			}
			if rf == 0 && name == "电压" {
				continue
			}
			if d := angleDiff(set[0], set[1]); abs(d-120) > 1e-6 {
				t.Errorf("Rf=%v %s A-B 相角差 %v, 期望 120", rf, name, d)
			}
			if d := angleDiff(set[1], set[2]); abs(d-120) > 1e-6 {
				t.Errorf("Rf=%v %s B-C 相角差 %v, 期望 120", rf, name, d)
			}
		}
	}
}

func TestPhaseToGround(t *testing.T) {
	q3, _ := Solve(network(0), ThreePhase{})
	q, err := Solve(network(0), SinglePhaseToGround{Phase: PhaseA})
	if err != nil {
		t.Fatalf("单相接地计算失败 %s", err)
	}
	if q.Ib.Magnitude() != 0 || q.Ic.Magnitude() != 0 {
		t.Errorf("非故障相电流应严格为零: Ib=%v Ic=%v", q.Ib, q.Ic)
	}
	if q.Ia.Magnitude() >= q3.Ia.Magnitude() {
		t.Errorf("单相接地电流 %v 应小于三相短路电流 %v", q.Ia.Magnitude(), q3.Ia.Magnitude())
	}
	// 3·Vph/|2Z1+Z0|
	want := 3 * 5773.5 / phasor.New(5, 25).Magnitude()
	if abs(q.Ia.Magnitude()-want)/want > 0.001 {
		t.Errorf("Ia 幅值不正确: 期望 %v, 实际 %v", want, q.Ia.Magnitude())
	}
	if q.Ua.Magnitude() != 0 {
		t.Errorf("Rf=0 时故障相电压应为零, 实际 %v", q.Ua)
	}
}

func TestPhaseToGroundOtherPhases(t *testing.T) {
	qa, _ := Solve(network(1), SinglePhaseToGround{Phase: PhaseA})
	for _, ph := range []Phase{PhaseB, PhaseC} {
		q, err := Solve(network(1), SinglePhaseToGround{Phase: ph})
		if err != nil {
			t.Fatalf("%v 相接地计算失败 %s", ph, err)
		}
		cur := q.Currents()
		for i := range cur {
			if Phase(i) == ph {
				if abs(cur[i].Magnitude()-qa.Ia.Magnitude()) > 1e-6 {
					t.Errorf("%v 相故障电流幅值 %v, 期望 %v", ph, cur[i].Magnitude(), qa.Ia.Magnitude())
				}
				// 故障相电流滞后本相电源角相同
				want := qa.Ia.AngleDegrees() - 120*float64(ph)
				if d := angleDiff(cur[i], phasor.FromPolar(1, want)); abs(d) > 1e-6 {
					t.Errorf("%v 相故障电流角度偏差 %v", ph, d)
				}
			} else if cur[i].Magnitude() != 0 {
				t.Errorf("%v 相接地时 %v 相电流应为零", ph, Phase(i))
			}
		}
	}
}

func TestPhaseToPhase(t *testing.T) {
	net := network(0)
	q, err := Solve(net, PhaseToPhase{Pair: PairBC})
	if err != nil {
		t.Fatalf("两相短路计算失败 %s", err)
	}
	if q.Ia.Magnitude() != 0 {
		t.Errorf("健全相电流应为零, 实际 %v", q.Ia)
	}
	if !q.Ib.Add(q.Ic).Equal(phasor.Zero, 1e-6) {
		t.Errorf("Ib+Ic 应为零: %v %v", q.Ib, q.Ic)
	}
	// 两相短路电流为三相短路的 √3/2
	q3, _ := Solve(net, ThreePhase{})
	want := q3.Ia.Magnitude() * math.Sqrt(3) / 2
	if abs(q.Ib.Magnitude()-want) > 1e-6*want {
		t.Errorf("Ib 幅值 %v, 期望 %v", q.Ib.Magnitude(), want)
	}
	if abs(q.Ua.Magnitude()-net.PhaseVoltage()) > 1e-9 {
		t.Errorf("健全相电压应为电源电压, 实际 %v", q.Ua)
	}
	// 金属性相间短路故障两相电压相等
	if !q.Ub.Equal(q.Uc, 1e-6) {
		t.Errorf("Ub 与 Uc 应相等: %v %v", q.Ub, q.Uc)
	}

	qca, err := Solve(net, PhaseToPhase{Pair: PairCA})
	if err != nil {
		t.Fatal(err)
	}
	if qca.Ib.Magnitude() != 0 || abs(qca.Ic.Magnitude()-want) > 1e-6*want {
		t.Errorf("CA 相间短路结果不正确: %+v", qca)
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	q, err := Solve(network(0.5), SinglePhaseToGround{Phase: PhaseA})
	if err != nil {
		t.Fatal(err)
	}
	s := SequenceCurrents(q)
	if !s.Zero.Equal(s.Positive, 1e-6) || !s.Positive.Equal(s.Negative, 1e-6) {
		t.Errorf("单相接地三序电流应相等: %+v", s)
	}
	back := s.ToPhase()
	for i, c := range q.Currents() {
		if !back[i].Equal(c, 1e-6) {
			t.Errorf("相 %d 往返不一致: %v %v", i, back[i], c)
		}
	}
}

func TestSolveErrors(t *testing.T) {
	tests := []struct {
		name string
		net  NetworkParameters
		ft   FaultType
		want error
	}{
		{"负过渡电阻", network(-1), ThreePhase{}, types.ErrInvalidInput},
		{"零电压", NetworkParameters{Z1: phasor.New(1, 1)}, ThreePhase{}, types.ErrInvalidInput},
		{"负电阻分量", NetworkParameters{LineVoltage: 1, Z1: phasor.New(-1, 1)}, ThreePhase{}, types.ErrInvalidInput},
		{"零阻抗三相", NetworkParameters{LineVoltage: 10000}, ThreePhase{}, types.ErrDivisionByZero},
		{"零阻抗相间", NetworkParameters{LineVoltage: 10000}, PhaseToPhase{}, types.ErrDivisionByZero},
		{"零阻抗接地", NetworkParameters{LineVoltage: 10000}, SinglePhaseToGround{}, types.ErrDivisionByZero},
		{"NaN 电压", NetworkParameters{LineVoltage: math.NaN(), Z1: phasor.New(1, 1)}, ThreePhase{}, types.ErrInvalidInput},
		{"缺少故障类型", network(0), nil, types.ErrInvalidInput},
	}
	for _, tt := range tests {
		if _, err := Solve(tt.net, tt.ft); !errors.Is(err, tt.want) {
			t.Errorf("%s: 期望 %v, 实际 %v", tt.name, tt.want, err)
		}
	}
}

func TestParseFaultType(t *testing.T) {
	tests := []struct {
		kind, arg string
		want      FaultType
	}{
		{"3P", "", ThreePhase{}},
		{"pp", "cb", PhaseToPhase{Pair: PairBC}},
		{"PP-AB", "", PhaseToPhase{Pair: PairAB}},
		{"PG", "b", SinglePhaseToGround{Phase: PhaseB}},
		{"PG-C", "", SinglePhaseToGround{Phase: PhaseC}},
		{"PG", "", SinglePhaseToGround{Phase: PhaseA}},
	}
	for _, tt := range tests {
		got, err := ParseFaultType(tt.kind, tt.arg)
		if err != nil || got != tt.want {
			t.Errorf("ParseFaultType(%q, %q) = %v, %v; 期望 %v", tt.kind, tt.arg, got, err, tt.want)
		}
	}
	if _, err := ParseFaultType("XX", ""); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("未知故障类型应返回 ErrInvalidInput, 实际 %v", err)
	}
}
