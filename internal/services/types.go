package services

import "time"

// Participant is a registered questionnaire respondent. Records are
// immutable once created as far as scoring is concerned.
type Participant struct {
	ID            string    `json:"id"`
	BadgeNumber   int       `json:"badge_number"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	PartnerAges   []int     `json:"partner_ages"`
	PartnerGender string    `json:"partner_gender"`
	CreatedAt     time.Time `json:"created_at"`
}

// WantsPartnerAge reports whether age is in the participant's accepted set.
func (p *Participant) WantsPartnerAge(age int) bool {
	for _, a := range p.PartnerAges {
		if a == age {
			return true
		}
	}
	return false
}

// AnswerOption is one populated option slot of an answer.
type AnswerOption struct {
	OptionNo int    `json:"option_no"`
	Text     string `json:"text,omitempty"`
}

// Answer is one participant's response to one question. Options holds only
// the populated slots, in slot order; a single-choice answer has exactly one.
// An empty slot is absent here, never the literal option 0.
type Answer struct {
	ID            string
	ParticipantID string
	QuestionNo    int
	Options       []AnswerOption
	CreatedAt     time.Time
}

// OptionValues returns the populated option numbers in slot order.
func (a *Answer) OptionValues() []int {
	if a == nil || len(a.Options) == 0 {
		return nil
	}
	out := make([]int, 0, len(a.Options))
	for _, o := range a.Options {
		out = append(out, o.OptionNo)
	}
	return out
}

// Admin is a backoffice account allowed to run cross-participant queries.
type Admin struct {
	ID        string
	Email     string
	PassHash  []byte
	Role      string
	CreatedAt time.Time
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
