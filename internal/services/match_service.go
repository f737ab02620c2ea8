package services

import "strings"

// MatchStore abstracts the reads required to match one participant.
type MatchStore interface {
	FindParticipant(name string, badgeNumber int) (*Participant, error)
	ListEligibleCandidates(ages []int, gender string) ([]*Participant, error)
	ListAnswersByParticipant(pid string) ([]*Answer, error)
	ListAnswersByParticipants(pids []string) ([]*Answer, error)
}

// ScoreResult is one candidate's outcome against an evaluator.
type ScoreResult struct {
	BadgeNumber int     `json:"badge_number"`
	Points      float64 `json:"points"`
	Percentage  float64 `json:"percentage"`
}

// TierBuckets partitions scored candidates into the four reported tiers.
// noMatch candidates are never added.
type TierBuckets struct {
	SuperMatch []ScoreResult `json:"super_match"`
	GoodMatch  []ScoreResult `json:"good_match"`
	Match      []ScoreResult `json:"match"`
	MaybeMatch []ScoreResult `json:"maybe_match"`
}

func (b *TierBuckets) add(tier MatchTier, r ScoreResult) {
	switch tier {
	case TierSuperMatch:
		b.SuperMatch = append(b.SuperMatch, r)
	case TierGoodMatch:
		b.GoodMatch = append(b.GoodMatch, r)
	case TierMatch:
		b.Match = append(b.Match, r)
	case TierMaybeMatch:
		b.MaybeMatch = append(b.MaybeMatch, r)
	}
}

// Count returns the population of the named tier.
func (b *TierBuckets) Count(tier MatchTier) int {
	switch tier {
	case TierSuperMatch:
		return len(b.SuperMatch)
	case TierGoodMatch:
		return len(b.GoodMatch)
	case TierMatch:
		return len(b.Match)
	case TierMaybeMatch:
		return len(b.MaybeMatch)
	}
	return 0
}

// MatchResult is the findMatch response payload. TotalScore is the
// evaluator's own maximum attainable score, for client-side display.
type MatchResult struct {
	BadgeNumber int     `json:"your_badge"`
	TotalScore  float64 `json:"total_score"`
	TierBuckets
}

// MatchService scores one participant against their eligible candidate pool.
type MatchService struct {
	store MatchStore
	cfg   MatchConfig
}

func NewMatchService(store MatchStore, cfg MatchConfig) *MatchService {
	return &MatchService{store: store, cfg: cfg}
}

// FindMatch resolves the evaluator by name and badge number, scores every
// eligible candidate and partitions them into tiers. An empty candidate pool
// still reports the evaluator's computed maximum score.
func (s *MatchService) FindMatch(name string, badgeNumber int) (*MatchResult, error) {
	if strings.TrimSpace(name) == "" || badgeNumber <= 0 {
		return nil, NewInvalidError("name and badge number required")
	}
	evaluator, err := s.store.FindParticipant(name, badgeNumber)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, NewNotFoundError("name or badge number is wrong")
	}
	evalAnswers, err := s.store.ListAnswersByParticipant(evaluator.ID)
	if err != nil {
		return nil, err
	}
	eval := IndexAnswers(evalAnswers)

	candidates, err := s.store.ListEligibleCandidates(evaluator.PartnerAges, evaluator.PartnerGender)
	if err != nil {
		return nil, err
	}
	buckets, err := scoreCandidatePool(s.store, evaluator, eval, candidates, s.cfg)
	if err != nil {
		return nil, err
	}
	return &MatchResult{
		BadgeNumber: evaluator.BadgeNumber,
		TotalScore:  MaxScore(eval, s.cfg.IsMultiChoice),
		TierBuckets: buckets,
	}, nil
}

// answerLister is the slice of MatchStore needed by the shared scoring path.
type answerLister interface {
	ListAnswersByParticipants(pids []string) ([]*Answer, error)
}

// scoreCandidatePool evaluates every candidate in pool iteration order and
// buckets the ones that clear the maybeMatch threshold. The evaluator is
// excluded from their own pool; eligibility filtering is the store's job.
func scoreCandidatePool(store answerLister, evaluator *Participant, eval AnswerIndex, candidates []*Participant, cfg MatchConfig) (TierBuckets, error) {
	var buckets TierBuckets
	pool := make([]*Participant, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.ID == evaluator.ID {
			continue
		}
		pool = append(pool, c)
		ids = append(ids, c.ID)
	}
	if len(pool) == 0 {
		return buckets, nil
	}
	answers, err := store.ListAnswersByParticipants(ids)
	if err != nil {
		return buckets, err
	}
	byOwner := GroupAnswersByOwner(answers)
	for _, c := range pool {
		ps := AggregateScore(eval, IndexAnswers(byOwner[c.ID]), cfg.IsMultiChoice)
		tier := TierForPercentage(ps.Percentage)
		if tier == TierNoMatch {
			continue
		}
		buckets.add(tier, ScoreResult{BadgeNumber: c.BadgeNumber, Points: ps.Raw, Percentage: ps.Percentage})
	}
	return buckets, nil
}
