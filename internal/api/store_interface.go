package api

import "github.com/pairwise-dev/pairwise/internal/services"

type Store interface {
	AddParticipant(p *Participant) (*Participant, error)
	GetParticipantByEmail(email string) (*Participant, error)
	FindParticipant(name string, badgeNumber int) (*Participant, error)
	ListEligibleCandidates(ages []int, gender string) ([]*Participant, error)
	ListParticipantsPage(search string, offset, limit int) ([]*Participant, int, error)

	AddAnswers(as []*Answer) error
	ListAnswersByParticipant(pid string) ([]*Answer, error)
	ListAnswersByParticipants(pids []string) ([]*Answer, error)

	AddAdmin(a *Admin) error
	FindAdminByEmail(email string) (*Admin, error)

	AddAudit(e AuditEntry)
	ListAudit() []AuditEntry
}

var _ Store = (*memoryStore)(nil)

func errInvalid(msg string) error  { return services.NewInvalidError(msg) }
func errConflict(msg string) error { return services.NewConflictError(msg) }
