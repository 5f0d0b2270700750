package fault

import (
	"relaycalc/phasor"

	"gonum.org/v1/gonum/mat"
)

// Sequence 对称分量
type Sequence struct {
	Zero     phasor.Phasor `json:"zero"`     // 零序
	Positive phasor.Phasor `json:"positive"` // 正序
	Negative phasor.Phasor `json:"negative"` // 负序
}

var (
	a  = phasor.A.Complex()
	a2 = phasor.A2.Complex()

	// fortescue 序分量到相分量 [Ia Ib Ic]ᵀ = F·[I0 I1 I2]ᵀ
	fortescue = mat.NewCDense(3, 3, []complex128{
		1, 1, 1,
		1, a2, a,
		1, a, a2,
	})
	// fortescueInv 相分量到序分量 F⁻¹ = F*/3
	fortescueInv = mat.NewCDense(3, 3, []complex128{
		1.0 / 3, 1.0 / 3, 1.0 / 3,
		1.0 / 3, a / 3, a2 / 3,
		1.0 / 3, a2 / 3, a / 3,
	})
)

// mulVec 3x3 复矩阵乘向量
func mulVec(m *mat.CDense, v [3]phasor.Phasor) (out [3]phasor.Phasor) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		var sum complex128
		for j := 0; j < c; j++ {
			sum += m.At(i, j) * v[j].Complex()
		}
		out[i] = phasor.FromComplex(sum)
	}
	return out
}

// ToPhase 序分量转换为 A B C 相分量
func (s Sequence) ToPhase() [3]phasor.Phasor {
	return mulVec(fortescue, [3]phasor.Phasor{s.Zero, s.Positive, s.Negative})
}

// ToSequence A B C 相分量转换为序分量
func ToSequence(abc [3]phasor.Phasor) Sequence {
	s := mulVec(fortescueInv, abc)
	return Sequence{Zero: s[0], Positive: s[1], Negative: s[2]}
}

// SequenceCurrents 故障电流的对称分量
func SequenceCurrents(q PhaseQuantities) Sequence { return ToSequence(q.Currents()) }

// SequenceVoltages 故障点电压的对称分量
func SequenceVoltages(q PhaseQuantities) Sequence { return ToSequence(q.Voltages()) }
