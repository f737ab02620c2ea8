package services

import (
	"sort"
	"sync"
)

// SortShowAll keeps the page in the order returned by the participant query
// (most recent first) instead of ranking by a tier's population.
const SortShowAll = "showAll"

// defaultBulkWorkers bounds the per-page fan-out. Evaluators within a page
// are scored independently against read-only indexes, so concurrent workers
// share no mutable state.
const defaultBulkWorkers = 8

// BulkMatchStore abstracts the reads required for paginated matching.
type BulkMatchStore interface {
	ListParticipantsPage(search string, offset, limit int) ([]*Participant, int, error)
	ListEligibleCandidates(ages []int, gender string) ([]*Participant, error)
	ListAnswersByParticipant(pid string) ([]*Answer, error)
	ListAnswersByParticipants(pids []string) ([]*Answer, error)
}

// UserMatches pairs one page participant with their tiered match buckets.
type UserMatches struct {
	Participant *Participant `json:"participant"`
	Match       MatchData    `json:"match"`
}

type MatchData struct {
	Data TierBuckets `json:"data"`
}

// BulkMatchResult is the findAllMatches response payload.
type BulkMatchResult struct {
	UsersData  []UserMatches `json:"users_data"`
	TotalPages int           `json:"total_pages"`
}

// BulkMatchService repeats MatchService scoring for every participant in a
// requested page, with tier-population sorting local to that page.
type BulkMatchService struct {
	store   BulkMatchStore
	cfg     MatchConfig
	workers int
}

func NewBulkMatchService(store BulkMatchStore, cfg MatchConfig) *BulkMatchService {
	return &BulkMatchService{store: store, cfg: cfg, workers: defaultBulkWorkers}
}

// parseSortKey maps the wire sort token to a tier. showAll maps to the empty
// tier, meaning page order is preserved.
func parseSortKey(sortBy string) (MatchTier, bool) {
	switch sortBy {
	case "", SortShowAll:
		return "", true
	case string(TierSuperMatch):
		return TierSuperMatch, true
	case string(TierGoodMatch):
		return TierGoodMatch, true
	case string(TierMatch):
		return TierMatch, true
	case string(TierMaybeMatch):
		return TierMaybeMatch, true
	}
	return "", false
}

// FindAllMatches scores one page of participants, each against their own
// eligible pool. The page is selected before any sorting happens: ordering
// by a tier's population reorders the already-paginated slice only, it never
// re-ranks the whole participant universe.
func (s *BulkMatchService) FindAllMatches(search, sortBy string, page, limit int) (*BulkMatchResult, error) {
	if page < 1 || limit < 1 {
		return nil, NewInvalidError("page and limit must be positive")
	}
	tier, ok := parseSortKey(sortBy)
	if !ok {
		return nil, NewInvalidError("unknown sort key: " + sortBy)
	}
	participants, total, err := s.store.ListParticipantsPage(search, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	totalPages := (total + limit - 1) / limit

	out := make([]UserMatches, len(participants))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for i, p := range participants {
		wg.Add(1)
		go func(i int, p *Participant) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			buckets, err := s.matchesFor(p)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			out[i] = UserMatches{Participant: p, Match: MatchData{Data: buckets}}
		}(i, p)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	if tier != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Match.Data.Count(tier) > out[j].Match.Data.Count(tier)
		})
	}
	return &BulkMatchResult{UsersData: out, TotalPages: totalPages}, nil
}

func (s *BulkMatchService) matchesFor(p *Participant) (TierBuckets, error) {
	answers, err := s.store.ListAnswersByParticipant(p.ID)
	if err != nil {
		return TierBuckets{}, err
	}
	candidates, err := s.store.ListEligibleCandidates(p.PartnerAges, p.PartnerGender)
	if err != nil {
		return TierBuckets{}, err
	}
	return scoreCandidatePool(s.store, p, IndexAnswers(answers), candidates, s.cfg)
}
