package services

import "math"

// PairScore is the aggregated comparison of one candidate against one
// evaluator: raw point total, the evaluator's maximum attainable total, and
// the normalized percentage. Raw and Percentage carry one decimal place.
type PairScore struct {
	Raw        float64
	Max        float64
	Percentage float64
}

// AggregateScore sums QuestionScore over every question the evaluator
// answered. Questions only the candidate answered contribute nothing;
// normalization is always against the evaluator's own ceiling. A zero
// maximum yields a zero percentage by definition.
func AggregateScore(eval, cand AnswerIndex, isMulti func(int) bool) PairScore {
	var raw, max float64
	for q, a := range eval {
		r, m := QuestionScore(a, cand[q], isMulti(q))
		raw += r
		max += m
	}
	ps := PairScore{Raw: round1(raw), Max: max}
	if max > 0 {
		ps.Percentage = round1(ps.Raw / max * 100)
	}
	return ps
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
