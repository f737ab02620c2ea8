package api

import "github.com/pairwise-dev/pairwise/internal/services"

// matchStoreAdapter exposes the Store reads to the scoring services,
// converting between api and services types at the boundary.
type matchStoreAdapter struct {
	store Store
}

func newMatchStoreAdapter(store Store) *matchStoreAdapter {
	return &matchStoreAdapter{store: store}
}

func toServiceParticipant(p *Participant) *services.Participant {
	if p == nil {
		return nil
	}
	return &services.Participant{
		ID:            p.ID,
		BadgeNumber:   p.BadgeNumber,
		Email:         p.Email,
		Name:          p.Name,
		Age:           p.Age,
		Gender:        p.Gender,
		PartnerAges:   append([]int(nil), p.PartnerAges...),
		PartnerGender: p.PartnerGender,
		CreatedAt:     p.CreatedAt,
	}
}

func toServiceParticipants(ps []*Participant) []*services.Participant {
	out := make([]*services.Participant, 0, len(ps))
	for _, p := range ps {
		out = append(out, toServiceParticipant(p))
	}
	return out
}

func toServiceAnswer(a *Answer) *services.Answer {
	if a == nil {
		return nil
	}
	opts := make([]services.AnswerOption, 0, len(a.Options))
	for _, o := range a.Options {
		opts = append(opts, services.AnswerOption{OptionNo: o.OptionNo, Text: o.Text})
	}
	return &services.Answer{
		ID:            a.ID,
		ParticipantID: a.ParticipantID,
		QuestionNo:    a.QuestionNo,
		Options:       opts,
		CreatedAt:     a.CreatedAt,
	}
}

func toServiceAnswers(as []*Answer) []*services.Answer {
	out := make([]*services.Answer, 0, len(as))
	for _, a := range as {
		out = append(out, toServiceAnswer(a))
	}
	return out
}

func (a *matchStoreAdapter) FindParticipant(name string, badgeNumber int) (*services.Participant, error) {
	p, err := a.store.FindParticipant(name, badgeNumber)
	if err != nil {
		return nil, err
	}
	return toServiceParticipant(p), nil
}

func (a *matchStoreAdapter) ListEligibleCandidates(ages []int, gender string) ([]*services.Participant, error) {
	ps, err := a.store.ListEligibleCandidates(ages, gender)
	if err != nil {
		return nil, err
	}
	return toServiceParticipants(ps), nil
}

func (a *matchStoreAdapter) ListParticipantsPage(search string, offset, limit int) ([]*services.Participant, int, error) {
	ps, total, err := a.store.ListParticipantsPage(search, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return toServiceParticipants(ps), total, nil
}

func (a *matchStoreAdapter) ListAnswersByParticipant(pid string) ([]*services.Answer, error) {
	as, err := a.store.ListAnswersByParticipant(pid)
	if err != nil {
		return nil, err
	}
	return toServiceAnswers(as), nil
}

func (a *matchStoreAdapter) ListAnswersByParticipants(pids []string) ([]*services.Answer, error) {
	as, err := a.store.ListAnswersByParticipants(pids)
	if err != nil {
		return nil, err
	}
	return toServiceAnswers(as), nil
}

var _ services.MatchStore = (*matchStoreAdapter)(nil)
var _ services.BulkMatchStore = (*matchStoreAdapter)(nil)
