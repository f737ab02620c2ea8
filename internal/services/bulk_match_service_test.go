package services

import (
	"strconv"
	"testing"
)

// singleChoiceOnly keeps bulk fixtures easy to reason about: five
// single-choice questions, so each matching answer adds 20 percentage points.
var singleChoiceOnly = MatchConfig{MultiChoiceQuestions: map[int]bool{}}

func fiveAnswers(matching int) []*Answer {
	out := make([]*Answer, 0, 5)
	for q := 0; q < 5; q++ {
		opt := 1
		if q >= matching {
			opt = 2
		}
		out = append(out, ans(q, opt))
	}
	return out
}

// bulkFixture builds evaluators with disjoint candidate pools. Each
// evaluator seeks a distinct partner age; goodMatches controls how many of
// their candidates land in the goodMatch tier (4 of 5 answers matching).
func bulkFixture(t *testing.T, goodMatches ...int) *matchStubStore {
	t.Helper()
	store := newMatchStubStore()
	for i, count := range goodMatches {
		age := 31 + i
		store.addParticipant(seeker("e"+strconv.Itoa(i), "Seeker"+strconv.Itoa(i), "m", "f", 25, age), fiveAnswers(5)...)
		for c := 0; c < count; c++ {
			id := "e" + strconv.Itoa(i) + "c" + strconv.Itoa(c)
			store.addParticipant(seeker(id, "Cand"+id, "f", "m", age, 25), fiveAnswers(4)...)
		}
	}
	return store
}

func TestFindAllMatchesSortByTier(t *testing.T) {
	store := bulkFixture(t, 1, 3, 2)
	svc := NewBulkMatchService(store, singleChoiceOnly)

	res, err := svc.FindAllMatches("Seeker", string(TierGoodMatch), 1, 10)
	if err != nil {
		t.Fatalf("FindAllMatches returned error: %v", err)
	}
	if len(res.UsersData) != 3 {
		t.Fatalf("page size = %d, want 3", len(res.UsersData))
	}
	gotCounts := []int{}
	for _, u := range res.UsersData {
		gotCounts = append(gotCounts, u.Match.Data.Count(TierGoodMatch))
	}
	for i := 1; i < len(gotCounts); i++ {
		if gotCounts[i] > gotCounts[i-1] {
			t.Fatalf("goodMatch counts not descending: %v", gotCounts)
		}
	}
	if res.UsersData[0].Participant.Name != "Seeker1" {
		t.Fatalf("first participant = %s, want Seeker1", res.UsersData[0].Participant.Name)
	}
}

func TestFindAllMatchesSortStableOnTies(t *testing.T) {
	store := bulkFixture(t, 1, 2, 3, 2)
	svc := NewBulkMatchService(store, singleChoiceOnly)

	res, err := svc.FindAllMatches("Seeker", string(TierGoodMatch), 1, 10)
	if err != nil {
		t.Fatalf("FindAllMatches returned error: %v", err)
	}
	names := []string{}
	for _, u := range res.UsersData {
		names = append(names, u.Participant.Name)
	}
	// Page order before sorting is most-recent-first: 3, 2, 1, 0 with
	// goodMatch counts 2, 3, 2, 1. Ties (Seeker3, Seeker1) keep page order.
	want := []string{"Seeker2", "Seeker3", "Seeker1", "Seeker0"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", names, want)
		}
	}
}

func TestFindAllMatchesShowAllKeepsPageOrder(t *testing.T) {
	store := bulkFixture(t, 1, 3, 2)
	svc := NewBulkMatchService(store, singleChoiceOnly)

	res, err := svc.FindAllMatches("Seeker", SortShowAll, 1, 10)
	if err != nil {
		t.Fatalf("FindAllMatches returned error: %v", err)
	}
	want := []string{"Seeker2", "Seeker1", "Seeker0"}
	for i := range want {
		if res.UsersData[i].Participant.Name != want[i] {
			t.Fatalf("position %d = %s, want %s", i, res.UsersData[i].Participant.Name, want[i])
		}
	}
}

func TestFindAllMatchesPagination(t *testing.T) {
	store := bulkFixture(t, 1, 1, 1, 1, 1)
	svc := NewBulkMatchService(store, singleChoiceOnly)

	res, err := svc.FindAllMatches("Seeker", SortShowAll, 1, 2)
	if err != nil {
		t.Fatalf("FindAllMatches returned error: %v", err)
	}
	if res.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3", res.TotalPages)
	}
	if len(res.UsersData) != 2 {
		t.Fatalf("page 1 size = %d, want 2", len(res.UsersData))
	}

	last, err := svc.FindAllMatches("Seeker", SortShowAll, 3, 2)
	if err != nil {
		t.Fatalf("FindAllMatches returned error: %v", err)
	}
	if len(last.UsersData) != 1 || last.UsersData[0].Participant.Name != "Seeker0" {
		t.Fatalf("unexpected final page: %+v", last.UsersData)
	}
}

func TestFindAllMatchesSearchByBadgeNumber(t *testing.T) {
	store := bulkFixture(t, 1, 1)
	svc := NewBulkMatchService(store, singleChoiceOnly)

	// Badge 1 is Seeker0 (first insert).
	res, err := svc.FindAllMatches("1", SortShowAll, 1, 10)
	if err != nil {
		t.Fatalf("FindAllMatches returned error: %v", err)
	}
	if len(res.UsersData) != 1 || res.UsersData[0].Participant.BadgeNumber != 1 {
		t.Fatalf("badge search result = %+v", res.UsersData)
	}
}

func TestFindAllMatchesInvalidInput(t *testing.T) {
	svc := NewBulkMatchService(newMatchStubStore(), singleChoiceOnly)

	if _, err := svc.FindAllMatches("", "bogus", 1, 10); err == nil {
		t.Fatalf("expected error for unknown sort key")
	}
	if _, err := svc.FindAllMatches("", SortShowAll, 0, 10); err == nil {
		t.Fatalf("expected error for page 0")
	}
	if _, err := svc.FindAllMatches("", SortShowAll, 1, 0); err == nil {
		t.Fatalf("expected error for limit 0")
	}
}
