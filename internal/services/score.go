package services

// optionPoints is awarded per matching option value.
const optionPoints = 10.0

// QuestionScore scores one candidate answer against one evaluator answer for
// the same question and returns the raw contribution plus the maximum
// attainable contribution. The maximum depends only on the evaluator's own
// answer, so an evaluator's total ceiling is identical across candidates.
// A nil candidate answer (question unanswered on that side) earns zero raw
// points but still counts toward the evaluator's maximum.
func QuestionScore(evaluator, candidate *Answer, multiChoice bool) (raw, max float64) {
	evalOpts := evaluator.OptionValues()
	if len(evalOpts) == 0 {
		return 0, 0
	}
	if !multiChoice {
		candOpts := candidate.OptionValues()
		if len(candOpts) > 0 && candOpts[0] == evalOpts[0] {
			raw = optionPoints
		}
		return raw, optionPoints
	}
	max = optionPoints * float64(len(evalOpts))
	candOpts := candidate.OptionValues()
	if len(candOpts) == 0 {
		return 0, max
	}
	candSet := make(map[int]bool, len(candOpts))
	for _, v := range candOpts {
		candSet[v] = true
	}
	for _, v := range evalOpts {
		if candSet[v] {
			raw += optionPoints
		}
	}
	return raw, max
}

// MaxScore sums the evaluator's per-question maxima over everything they
// answered. This is the stable denominator used to normalize every
// candidate's raw total for that evaluator.
func MaxScore(eval AnswerIndex, isMulti func(int) bool) float64 {
	var max float64
	for q, a := range eval {
		_, m := QuestionScore(a, nil, isMulti(q))
		max += m
	}
	return max
}
