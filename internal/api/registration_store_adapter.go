package api

import "github.com/pairwise-dev/pairwise/internal/services"

type registrationStoreAdapter struct {
	store Store
}

func newRegistrationStoreAdapter(store Store) services.RegistrationStore {
	return &registrationStoreAdapter{store: store}
}

func fromServiceParticipant(p *services.Participant) *Participant {
	if p == nil {
		return nil
	}
	return &Participant{
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

func fromServiceAnswer(a *services.Answer) *Answer {
	if a == nil {
		return nil
	}
	opts := make([]AnswerOption, 0, len(a.Options))
	for _, o := range a.Options {
		opts = append(opts, AnswerOption{OptionNo: o.OptionNo, Text: o.Text})
	}
	return &Answer{
		ID:            a.ID,
		ParticipantID: a.ParticipantID,
		QuestionNo:    a.QuestionNo,
		Options:       opts,
		CreatedAt:     a.CreatedAt,
	}
}

func (a *registrationStoreAdapter) GetParticipantByEmail(email string) (*services.Participant, error) {
	p, err := a.store.GetParticipantByEmail(email)
	if err != nil {
		return nil, err
	}
	return toServiceParticipant(p), nil
}

func (a *registrationStoreAdapter) AddParticipant(p *services.Participant) (*services.Participant, error) {
	created, err := a.store.AddParticipant(fromServiceParticipant(p))
	if err != nil {
		return nil, err
	}
	return toServiceParticipant(created), nil
}

func (a *registrationStoreAdapter) AddAnswers(as []*services.Answer) error {
	rows := make([]*Answer, 0, len(as))
	for _, sa := range as {
		rows = append(rows, fromServiceAnswer(sa))
	}
	return a.store.AddAnswers(rows)
}

func (a *registrationStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note})
}

var _ services.RegistrationStore = (*registrationStoreAdapter)(nil)
