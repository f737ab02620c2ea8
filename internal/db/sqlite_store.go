package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pairwise-dev/pairwise/internal/api"
	"github.com/pairwise-dev/pairwise/internal/services"
)

// SQLiteStore persists participants, answers, admins and the audit log.
// Badge numbers live in the database so they stay sequential across restarts.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLiteStore(db *sql.DB, log *zap.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if log == nil {
		log = zap.NewNop()
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func NewStore(db *sql.DB, log *zap.Logger) (api.Store, error) {
	return NewSQLiteStore(db, log)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		s.log.Error("sqlite store", zap.String("op", prefix), zap.Error(err))
	}
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}

func toNullString(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func encodeAges(ages []int) (string, error) {
	b, err := json.Marshal(ages)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *SQLiteStore) decodeAges(raw string) []int {
	var out []int
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logErr("decode partner_ages", err)
		return nil
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteStore) parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		s.logErr("parse timestamp", err)
		return time.Time{}
	}
	return t
}

const participantColumns = "id, badge_number, email, name, age, gender, partner_ages, partner_gender, created_at"

func (s *SQLiteStore) scanParticipant(row interface{ Scan(...any) error }) (*api.Participant, error) {
	var p api.Participant
	var ages, created string
	if err := row.Scan(&p.ID, &p.BadgeNumber, &p.Email, &p.Name, &p.Age, &p.Gender, &ages, &p.PartnerGender, &created); err != nil {
		return nil, err
	}
	p.PartnerAges = s.decodeAges(ages)
	p.CreatedAt = s.parseTime(created)
	return &p, nil
}

// AddParticipant inserts a participant, assigning the next badge number
// inside the same transaction so concurrent registrations never collide.
func (s *SQLiteStore) AddParticipant(p *api.Participant) (*api.Participant, error) {
	if p == nil {
		return nil, services.NewInvalidError("participant required")
	}
	ages, err := encodeAges(p.PartnerAges)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var badge int
	if err := tx.QueryRow("SELECT COALESCE(MAX(badge_number), 0) + 1 FROM participants").Scan(&badge); err != nil {
		return nil, err
	}
	_, err = tx.Exec(`INSERT INTO participants (`+participantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, badge, p.Email, p.Name, p.Age, p.Gender, ages, p.PartnerGender, formatTime(p.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.NewConflictError("email already registered")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	out := *p
	out.BadgeNumber = badge
	return &out, nil
}

func (s *SQLiteStore) GetParticipantByEmail(email string) (*api.Participant, error) {
	if strings.TrimSpace(email) == "" {
		return nil, nil
	}
	row := s.db.QueryRow(`SELECT `+participantColumns+` FROM participants WHERE email = ? COLLATE NOCASE`, email)
	p, err := s.scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *SQLiteStore) FindParticipant(name string, badgeNumber int) (*api.Participant, error) {
	row := s.db.QueryRow(`SELECT `+participantColumns+` FROM participants WHERE badge_number = ? AND name = ? COLLATE NOCASE`, badgeNumber, name)
	p, err := s.scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *SQLiteStore) ListEligibleCandidates(ages []int, gender string) ([]*api.Participant, error) {
	if len(ages) == 0 {
		return []*api.Participant{}, nil
	}
	placeholders := strings.Repeat("?,", len(ages))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ages)+1)
	args = append(args, gender)
	for _, a := range ages {
		args = append(args, a)
	}
	rows, err := s.db.Query(`SELECT `+participantColumns+` FROM participants
      WHERE gender = ? AND age IN (`+placeholders+`) ORDER BY badge_number ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { s.logErr("ListEligibleCandidates: rows.Close", rows.Close()) }()
	out := []*api.Participant{}
	for rows.Next() {
		p, err := s.scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListParticipantsPage selects one page, most recent first. The search term
// matches a case-insensitive name prefix, or an exact badge number when the
// term is numeric.
func (s *SQLiteStore) ListParticipantsPage(search string, offset, limit int) ([]*api.Participant, int, error) {
	search = strings.TrimSpace(search)
	where := ""
	args := []any{}
	if search != "" {
		badge := -1
		if n, err := strconv.Atoi(search); err == nil {
			badge = n
		}
		where = ` WHERE (name LIKE ? COLLATE NOCASE OR badge_number = ?)`
		args = append(args, search+"%", badge)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM participants`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`SELECT `+participantColumns+` FROM participants`+where+
		` ORDER BY created_at DESC, badge_number DESC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { s.logErr("ListParticipantsPage: rows.Close", rows.Close()) }()
	out := []*api.Participant{}
	for rows.Next() {
		p, err := s.scanParticipant(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

const answerSlots = 5

func (s *SQLiteStore) AddAnswers(as []*api.Answer) error {
	if len(as) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, a := range as {
		if a == nil {
			continue
		}
		slots := make([]any, 0, answerSlots*2)
		for i := 0; i < answerSlots; i++ {
			if i < len(a.Options) {
				slots = append(slots, a.Options[i].OptionNo, toNullString(a.Options[i].Text))
			} else {
				slots = append(slots, nil, nil)
			}
		}
		args := append([]any{a.ID, a.ParticipantID, a.QuestionNo}, slots...)
		args = append(args, formatTime(a.CreatedAt))
		_, err := tx.Exec(`INSERT INTO answers (id, participant_id, question_no,
          option_no_1, answer_1, option_no_2, answer_2, option_no_3, answer_3,
          option_no_4, answer_4, option_no_5, answer_5, created_at)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return services.NewConflictError("question already answered")
			}
			return err
		}
	}
	return tx.Commit()
}

const answerColumns = `id, participant_id, question_no,
  option_no_1, answer_1, option_no_2, answer_2, option_no_3, answer_3,
  option_no_4, answer_4, option_no_5, answer_5, created_at`

func (s *SQLiteStore) scanAnswer(row interface{ Scan(...any) error }) (*api.Answer, error) {
	var a api.Answer
	var created string
	optNos := make([]sql.NullInt64, answerSlots)
	texts := make([]sql.NullString, answerSlots)
	dest := []any{&a.ID, &a.ParticipantID, &a.QuestionNo}
	for i := 0; i < answerSlots; i++ {
		dest = append(dest, &optNos[i], &texts[i])
	}
	dest = append(dest, &created)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	for i := 0; i < answerSlots; i++ {
		if !optNos[i].Valid {
			continue
		}
		a.Options = append(a.Options, api.AnswerOption{OptionNo: int(optNos[i].Int64), Text: texts[i].String})
	}
	a.CreatedAt = s.parseTime(created)
	return &a, nil
}

func (s *SQLiteStore) ListAnswersByParticipant(pid string) ([]*api.Answer, error) {
	return s.listAnswers(`SELECT `+answerColumns+` FROM answers WHERE participant_id = ? ORDER BY question_no ASC`, pid)
}

func (s *SQLiteStore) ListAnswersByParticipants(pids []string) ([]*api.Answer, error) {
	if len(pids) == 0 {
		return []*api.Answer{}, nil
	}
	placeholders := strings.Repeat("?,", len(pids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(pids))
	for _, pid := range pids {
		args = append(args, pid)
	}
	return s.listAnswers(`SELECT `+answerColumns+` FROM answers WHERE participant_id IN (`+placeholders+`) ORDER BY participant_id, question_no ASC`, args...)
}

func (s *SQLiteStore) listAnswers(query string, args ...any) ([]*api.Answer, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { s.logErr("listAnswers: rows.Close", rows.Close()) }()
	out := []*api.Answer{}
	for rows.Next() {
		a, err := s.scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddAdmin(a *api.Admin) error {
	if a == nil {
		return services.NewInvalidError("admin required")
	}
	_, err := s.db.Exec(`INSERT INTO admins (id, email, pass_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.PassHash, a.Role, formatTime(a.CreatedAt))
	if isUniqueViolation(err) {
		return services.NewConflictError("email exists")
	}
	return err
}

func (s *SQLiteStore) FindAdminByEmail(email string) (*api.Admin, error) {
	row := s.db.QueryRow(`SELECT id, email, pass_hash, role, created_at FROM admins WHERE email = ? COLLATE NOCASE`, email)
	var a api.Admin
	var created string
	if err := row.Scan(&a.ID, &a.Email, &a.PassHash, &a.Role, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.CreatedAt = s.parseTime(created)
	return &a, nil
}

func (s *SQLiteStore) AddAudit(e api.AuditEntry) {
	_, err := s.db.Exec(`INSERT INTO audit_log (ts, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		formatTime(e.Time), e.Actor, e.Action, toNullString(e.Target), toNullString(e.Note))
	s.logErr("AddAudit", err)
}

func (s *SQLiteStore) ListAudit() []api.AuditEntry {
	rows, err := s.db.Query(`SELECT ts, actor, action, target, note FROM audit_log ORDER BY id DESC LIMIT 500`)
	if err != nil {
		s.logErr("ListAudit", err)
		return nil
	}
	defer func() { s.logErr("ListAudit: rows.Close", rows.Close()) }()
	out := []api.AuditEntry{}
	for rows.Next() {
		var e api.AuditEntry
		var ts string
		var target, note sql.NullString
		if err := rows.Scan(&ts, &e.Actor, &e.Action, &target, &note); err != nil {
			s.logErr("ListAudit: scan", err)
			continue
		}
		e.Time = s.parseTime(ts)
		e.Target = target.String
		e.Note = note.String
		out = append(out, e)
	}
	s.logErr("ListAudit: rows.Err", rows.Err())
	return out
}
