package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxOptionSlots caps the populated option slots of a multi-choice answer.
const maxOptionSlots = 5

// RegistrationStore abstracts persistence for questionnaire submission.
type RegistrationStore interface {
	GetParticipantByEmail(email string) (*Participant, error)
	AddParticipant(p *Participant) (*Participant, error)
	AddAnswers(as []*Answer) error
	AddAudit(e AuditEntry)
}

// QuestionSubmission is one answered question; its position in the request
// slice is the question number.
type QuestionSubmission struct {
	Options []AnswerOption
}

// RegistrationRequest carries a full questionnaire submission.
type RegistrationRequest struct {
	Email         string
	Name          string
	Age           int
	Gender        string
	PartnerGender string
	PartnerAges   []int
	Questions     []QuestionSubmission
}

// RegistrationService creates a participant with their answers. Badge
// numbers are a monotonic counter owned by the store, never assigned here.
type RegistrationService struct {
	store RegistrationStore
	now   func() time.Time
	idGen func() string
	cfg   MatchConfig
}

func NewRegistrationService(store RegistrationStore, cfg MatchConfig) *RegistrationService {
	return &RegistrationService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
		cfg:   cfg,
	}
}

// Register validates the submission, stores the participant and one answer
// row per answered question. Question numbers are 0-based positions in the
// request; questions submitted without options stay unanswered.
func (s *RegistrationService) Register(req RegistrationRequest) (*Participant, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" {
		return nil, NewInvalidError("email and name required")
	}
	if req.Age <= 0 {
		return nil, NewInvalidError("age required")
	}
	if req.Gender == "" || req.PartnerGender == "" {
		return nil, NewInvalidError("gender and partner gender required")
	}
	if len(req.PartnerAges) == 0 {
		return nil, NewInvalidError("at least one acceptable partner age required")
	}
	for no, q := range req.Questions {
		if len(q.Options) > maxOptionSlots {
			return nil, NewInvalidError("question " + strconv.Itoa(no) + " has too many options")
		}
		if !s.cfg.IsMultiChoice(no) && len(q.Options) > 1 {
			return nil, NewInvalidError("question " + strconv.Itoa(no) + " accepts a single option")
		}
	}
	existing, err := s.store.GetParticipantByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("email already registered")
	}

	now := s.now()
	p := &Participant{
		ID:            s.idGen(),
		Email:         req.Email,
		Name:          req.Name,
		Age:           req.Age,
		Gender:        req.Gender,
		PartnerGender: req.PartnerGender,
		PartnerAges:   append([]int(nil), req.PartnerAges...),
		CreatedAt:     now,
	}
	created, err := s.store.AddParticipant(p)
	if err != nil {
		return nil, err
	}
	if created != nil {
		p = created
	}

	answers := make([]*Answer, 0, len(req.Questions))
	for no, q := range req.Questions {
		if len(q.Options) == 0 {
			continue
		}
		answers = append(answers, &Answer{
			ID:            s.idGen(),
			ParticipantID: p.ID,
			QuestionNo:    no,
			Options:       append([]AnswerOption(nil), q.Options...),
			CreatedAt:     now,
		})
	}
	if err := s.store.AddAnswers(answers); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: "participant", Action: "register", Target: strconv.Itoa(p.BadgeNumber), Note: strconv.Itoa(len(answers)) + " answers"})
	return p, nil
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
