package roughness

import (
	"fmt"
	"math"
)

// ConfusionMatrix tallies predicted-vs-reference category co-occurrence
// over cells classified on both sides. Cnt is row-major [reference][predicted].
type ConfusionMatrix struct {
	N   int
	Cnt []int64
}

func newConfusionMatrix(n int) *ConfusionMatrix {
	return &ConfusionMatrix{N: n, Cnt: make([]int64, n*n)}
}

// Merge adds o cell-for-cell. Addition is associative and commutative,
// so partial matrices from disjoint cell ranges fold in any order.
func (cm *ConfusionMatrix) Merge(o *ConfusionMatrix) {
	for i, v := range o.Cnt {
		cm.Cnt[i] += v
	}
}

// Total is the number of scored cells.
func (cm *ConfusionMatrix) Total() int64 {
	var t int64
	for _, v := range cm.Cnt {
		t += v
	}
	return t
}

// Correct is the diagonal sum.
func (cm *ConfusionMatrix) Correct() int64 {
	var t int64
	for i := 0; i < cm.N; i++ {
		t += cm.Cnt[i*cm.N+i]
	}
	return t
}

// QualityReport carries the confusion counts of one evaluation and the
// metrics derived from them. Built fresh per evaluation, never mutated.
type QualityReport struct {
	Confusion         *ConfusionMatrix
	Scored            int64
	Accuracy          float64
	Precision, Recall []float64
	Score             float64 // composite objective, the value optimizers maximize
}

// ScoreFunc reduces a confusion matrix to the single composite score an
// optimizer maximizes.
type ScoreFunc func(*ConfusionMatrix) float64

// ScoreAccuracy is the default objective: correct / total scored.
func ScoreAccuracy(cm *ConfusionMatrix) float64 {
	t := cm.Total()
	if t == 0 {
		return 0.
	}
	return float64(cm.Correct()) / float64(t)
}

// ScoreKappa is Cohen's kappa, chance-corrected agreement.
func ScoreKappa(cm *ConfusionMatrix) float64 {
	t := float64(cm.Total())
	if t == 0 {
		return 0.
	}
	var pe float64
	for i := 0; i < cm.N; i++ {
		var rs, cs int64
		for j := 0; j < cm.N; j++ {
			rs += cm.Cnt[i*cm.N+j]
			cs += cm.Cnt[j*cm.N+i]
		}
		pe += float64(rs) * float64(cs) / (t * t)
	}
	if pe == 1. {
		return 1.
	}
	po := float64(cm.Correct()) / t
	return (po - pe) / (1. - pe)
}

// ScoreMacroF1 is the unweighted mean per-category F1; categories with
// no support on either side contribute zero.
func ScoreMacroF1(cm *ConfusionMatrix) float64 {
	if cm.N == 0 {
		return 0.
	}
	var s float64
	for i := 0; i < cm.N; i++ {
		var rs, cs int64
		for j := 0; j < cm.N; j++ {
			rs += cm.Cnt[i*cm.N+j]
			cs += cm.Cnt[j*cm.N+i]
		}
		d := cm.Cnt[i*cm.N+i]
		if rs+cs > 0 {
			s += 2. * float64(d) / float64(rs+cs)
		}
	}
	return s / float64(cm.N)
}

// ScoreDecay is the mean of exp(-|predicted-reference|): adjacent-
// category confusion is penalized far less than distant confusion.
func ScoreDecay(cm *ConfusionMatrix) float64 {
	t := cm.Total()
	if t == 0 {
		return 0.
	}
	var s float64
	for i := 0; i < cm.N; i++ {
		for j := 0; j < cm.N; j++ {
			s += float64(cm.Cnt[i*cm.N+j]) * math.Exp(-math.Abs(float64(i-j)))
		}
	}
	return s / float64(t)
}

// Evaluate scores a classification against a reference labeling of the
// same shape. Cells masked on either side are excluded from scoring.
// Deterministic: identical inputs yield identical reports regardless of
// worker scheduling.
func Evaluate(pred, ref *ClassifiedGrid, score ScoreFunc) (*QualityReport, error) {
	if pred == nil || ref == nil || !sameShape(pred.Nr, pred.Nc, ref.Nr, ref.Nc) {
		return nil, fmt.Errorf("%w: classification and reference shapes differ", ErrIncompatibleGrids)
	}
	if score == nil {
		score = ScoreAccuracy
	}

	n := 0 // categories present in either grid
	for i := range pred.C {
		if pred.Ok[i] && int(pred.C[i]) >= n {
			n = int(pred.C[i]) + 1
		}
		if ref.Ok[i] && int(ref.C[i]) >= n {
			n = int(ref.C[i]) + 1
		}
	}

	cm := accumulateConfusion(pred, ref, n)
	rep := &QualityReport{
		Confusion: cm,
		Scored:    cm.Total(),
		Accuracy:  ScoreAccuracy(cm),
		Precision: make([]float64, n),
		Recall:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		var rs, cs int64
		for j := 0; j < n; j++ {
			rs += cm.Cnt[i*n+j] // reference support
			cs += cm.Cnt[j*n+i] // prediction support
		}
		d := cm.Cnt[i*n+i]
		if cs > 0 {
			rep.Precision[i] = float64(d) / float64(cs)
		}
		if rs > 0 {
			rep.Recall[i] = float64(d) / float64(rs)
		}
	}
	rep.Score = score(cm)
	return rep, nil
}

// AgreementSeries flattens the scored cells of a classification and its
// reference into parallel code series, in cell order. Intended for
// series-based objective summaries (objfunc) in calling drivers.
func AgreementSeries(pred, ref *ClassifiedGrid) (obs, sim []float64, err error) {
	if pred == nil || ref == nil || !sameShape(pred.Nr, pred.Nc, ref.Nr, ref.Nc) {
		return nil, nil, fmt.Errorf("%w: classification and reference shapes differ", ErrIncompatibleGrids)
	}
	for i := range pred.C {
		if pred.Ok[i] && ref.Ok[i] {
			obs = append(obs, float64(ref.C[i]))
			sim = append(sim, float64(pred.C[i]))
		}
	}
	return obs, sim, nil
}
