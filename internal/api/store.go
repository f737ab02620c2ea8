package api

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

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

type AnswerOption struct {
	OptionNo int    `json:"option_no"`
	Text     string `json:"answer,omitempty"`
}

type Answer struct {
	ID            string         `json:"id"`
	ParticipantID string         `json:"participant_id"`
	QuestionNo    int            `json:"question_no"`
	Options       []AnswerOption `json:"options"`
	CreatedAt     time.Time      `json:"created_at"`
}

type Admin struct {
	ID        string
	Email     string
	PassHash  []byte
	Role      string
	CreatedAt time.Time
}

// audit log
type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

type memoryStore struct {
	mu            sync.RWMutex
	participants  []*Participant
	byID          map[string]*Participant
	byEmail       map[string]*Participant
	answers       map[string][]*Answer
	answeredQ     map[string]bool
	adminsByEmail map[string]*Admin
	audit         []AuditEntry
	lastBadge     int
}

// NewMemoryStore returns an empty in-memory Store, used when no database
// path is configured and by the test suites.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		byID:          map[string]*Participant{},
		byEmail:       map[string]*Participant{},
		answers:       map[string][]*Answer{},
		answeredQ:     map[string]bool{},
		adminsByEmail: map[string]*Admin{},
		audit:         []AuditEntry{},
	}
}

func answerKey(pid string, questionNo int) string {
	return pid + "#" + strconv.Itoa(questionNo)
}

func (s *memoryStore) AddParticipant(p *Participant) (*Participant, error) {
	if p == nil {
		return nil, errInvalid("participant required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[strings.ToLower(p.Email)]; ok {
		return nil, errConflict("email already registered")
	}
	s.lastBadge++
	stored := *p
	stored.BadgeNumber = s.lastBadge
	s.participants = append(s.participants, &stored)
	s.byID[stored.ID] = &stored
	s.byEmail[strings.ToLower(stored.Email)] = &stored
	out := stored
	return &out, nil
}

func (s *memoryStore) GetParticipantByEmail(email string) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (s *memoryStore) FindParticipant(name string, badgeNumber int) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.participants {
		if p.BadgeNumber == badgeNumber && strings.EqualFold(p.Name, name) {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) ListEligibleCandidates(ages []int, gender string) ([]*Participant, error) {
	ageSet := make(map[int]bool, len(ages))
	for _, a := range ages {
		ageSet[a] = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Participant{}
	for _, p := range s.participants {
		if ageSet[p.Age] && p.Gender == gender {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ListParticipantsPage returns one page in most-recent-first order. A search
// term filters by case-insensitive name prefix, or by exact badge number when
// the term is numeric.
func (s *memoryStore) ListParticipantsPage(search string, offset, limit int) ([]*Participant, int, error) {
	search = strings.TrimSpace(search)
	badge := -1
	if n, err := strconv.Atoi(search); err == nil {
		badge = n
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filtered := make([]*Participant, 0, len(s.participants))
	for _, p := range s.participants {
		if search != "" && !strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(search)) && p.BadgeNumber != badge {
			continue
		}
		filtered = append(filtered, p)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].BadgeNumber > filtered[j].BadgeNumber
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	total := len(filtered)
	if offset < 0 || offset >= total {
		return []*Participant{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]*Participant, 0, end-offset)
	for _, p := range filtered[offset:end] {
		cp := *p
		out = append(out, &cp)
	}
	return out, total, nil
}

func (s *memoryStore) AddAnswers(as []*Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range as {
		if s.answeredQ[answerKey(a.ParticipantID, a.QuestionNo)] {
			return errConflict("question already answered")
		}
	}
	for _, a := range as {
		cp := *a
		s.answers[a.ParticipantID] = append(s.answers[a.ParticipantID], &cp)
		s.answeredQ[answerKey(a.ParticipantID, a.QuestionNo)] = true
	}
	return nil
}

func (s *memoryStore) ListAnswersByParticipant(pid string) ([]*Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Answer, 0, len(s.answers[pid]))
	for _, a := range s.answers[pid] {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memoryStore) ListAnswersByParticipants(pids []string) ([]*Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Answer{}
	for _, pid := range pids {
		for _, a := range s.answers[pid] {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memoryStore) AddAdmin(a *Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(a.Email)
	if _, ok := s.adminsByEmail[key]; ok {
		return errConflict("email exists")
	}
	cp := *a
	s.adminsByEmail[key] = &cp
	return nil
}

func (s *memoryStore) FindAdminByEmail(email string) (*Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.adminsByEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *memoryStore) ListAudit() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}
