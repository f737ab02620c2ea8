package services

// AnswerIndex maps question number to one participant's answer for it.
type AnswerIndex map[int]*Answer

// IndexAnswers builds an AnswerIndex from a flat answer list. When the input
// violates the one-answer-per-question invariant the first occurrence wins;
// the engine tolerates malformed data rather than failing the request.
func IndexAnswers(answers []*Answer) AnswerIndex {
	idx := make(AnswerIndex, len(answers))
	for _, a := range answers {
		if a == nil {
			continue
		}
		if _, ok := idx[a.QuestionNo]; ok {
			continue
		}
		idx[a.QuestionNo] = a
	}
	return idx
}

// GroupAnswersByOwner splits a candidate pool's answers by participant ID,
// preserving input order within each owner.
func GroupAnswersByOwner(answers []*Answer) map[string][]*Answer {
	out := map[string][]*Answer{}
	for _, a := range answers {
		if a == nil {
			continue
		}
		out[a.ParticipantID] = append(out[a.ParticipantID], a)
	}
	return out
}
