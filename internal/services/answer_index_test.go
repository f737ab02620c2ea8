package services

import "testing"

func TestIndexAnswersFirstWins(t *testing.T) {
	first := ans(2, 1)
	dup := ans(2, 9)
	idx := IndexAnswers([]*Answer{first, dup, nil, ans(5, 3)})
	if len(idx) != 2 {
		t.Fatalf("index size = %d, want 2", len(idx))
	}
	if idx[2] != first {
		t.Fatalf("duplicate answer replaced the first occurrence")
	}
	if idx[5] == nil {
		t.Fatalf("missing question 5")
	}
}

func TestIndexAnswersEmpty(t *testing.T) {
	if idx := IndexAnswers(nil); len(idx) != 0 {
		t.Fatalf("empty input produced %d entries", len(idx))
	}
}

func TestGroupAnswersByOwner(t *testing.T) {
	a1 := &Answer{ParticipantID: "p1", QuestionNo: 0}
	a2 := &Answer{ParticipantID: "p2", QuestionNo: 0}
	a3 := &Answer{ParticipantID: "p1", QuestionNo: 1}
	groups := GroupAnswersByOwner([]*Answer{a1, a2, nil, a3})
	if len(groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(groups))
	}
	if len(groups["p1"]) != 2 || groups["p1"][0] != a1 || groups["p1"][1] != a3 {
		t.Fatalf("p1 answers out of order: %+v", groups["p1"])
	}
	if len(groups["p2"]) != 1 {
		t.Fatalf("p2 answers = %d, want 1", len(groups["p2"]))
	}
}
