package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pairwise-dev/pairwise/internal/metrics"
	"github.com/pairwise-dev/pairwise/internal/middleware"
	"github.com/pairwise-dev/pairwise/internal/services"
)

type Router struct {
	store Store
	log   *zap.Logger
	reg   *services.RegistrationService
	match *services.MatchService
	bulk  *services.BulkMatchService
	auth  *services.AuthService
}

func NewRouter(store Store, log *zap.Logger, cfg services.MatchConfig) *Router {
	matchAdapter := newMatchStoreAdapter(store)
	return &Router{
		store: store,
		log:   log,
		reg:   services.NewRegistrationService(newRegistrationStoreAdapter(store), cfg),
		match: services.NewMatchService(matchAdapter, cfg),
		bulk:  services.NewBulkMatchService(matchAdapter, cfg),
		auth:  services.NewAuthService(newAuthStoreAdapter(store), middleware.SignToken),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/participants", rt.handleRegister)     // POST
	mux.HandleFunc("/api/match", rt.handleMatch)               // GET
	mux.Handle("/api/match/all", middleware.RequireAuth(http.HandlerFunc(rt.handleMatchAll))) // GET
	mux.HandleFunc("/api/admin/register", rt.handleAdminRegister) // POST
	mux.HandleFunc("/api/admin/login", rt.handleAdminLogin)       // POST
	mux.Handle("/api/audit", middleware.RequireAuth(http.HandlerFunc(rt.handleAudit))) // GET
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service error codes to HTTP statuses. Unknown errors are
// logged and reported as a generic 500 so internals never leak to clients.
func (rt *Router) writeError(w http.ResponseWriter, endpoint string, err error) {
	metrics.RequestsTotal.WithLabelValues(endpoint, "error").Inc()
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": se.Message, "code": string(se.Code)})
		return
	}
	rt.log.Error("request failed", zap.String("endpoint", endpoint), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

type registerRequest struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	PartnerGender string `json:"partner_gender"`
	PartnerAges   []int  `json:"partner_ages"`
	Questions     []struct {
		Options []struct {
			OptionNo int    `json:"option_no"`
			Answer   string `json:"answer"`
		} `json:"options"`
	} `json:"questions"`
}

// POST /api/participants
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, "register", services.NewInvalidError("invalid json body"))
		return
	}
	sreq := services.RegistrationRequest{
		Email:         req.Email,
		Name:          req.Name,
		Age:           req.Age,
		Gender:        req.Gender,
		PartnerGender: req.PartnerGender,
		PartnerAges:   req.PartnerAges,
	}
	for _, q := range req.Questions {
		sq := services.QuestionSubmission{}
		for _, o := range q.Options {
			sq.Options = append(sq.Options, services.AnswerOption{OptionNo: o.OptionNo, Text: o.Answer})
		}
		sreq.Questions = append(sreq.Questions, sq)
	}
	p, err := rt.reg.Register(sreq)
	if err != nil {
		rt.writeError(w, "register", err)
		return
	}
	metrics.RequestsTotal.WithLabelValues("register", "ok").Inc()
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           p.ID,
		"badge_number": p.BadgeNumber,
		"name":         p.Name,
	})
}

// GET /api/match?name=...&badge_number=...
func (rt *Router) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := r.URL.Query().Get("name")
	badge, err := strconv.Atoi(r.URL.Query().Get("badge_number"))
	if err != nil {
		rt.writeError(w, "match", services.NewInvalidError("badge_number must be a number"))
		return
	}
	start := time.Now()
	res, err := rt.match.FindMatch(name, badge)
	if err != nil {
		rt.writeError(w, "match", err)
		return
	}
	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	metrics.CandidatesScored.Add(float64(countScored(&res.TierBuckets)))
	metrics.RequestsTotal.WithLabelValues("match", "ok").Inc()
	writeJSON(w, http.StatusOK, res)
}

// GET /api/match/all?search=&sort_by=&page=&limit=
func (rt *Router) handleMatchAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	limit := queryInt(q.Get("limit"), 10)
	start := time.Now()
	res, err := rt.bulk.FindAllMatches(q.Get("search"), q.Get("sort_by"), page, limit)
	if err != nil {
		rt.writeError(w, "match_all", err)
		return
	}
	metrics.BulkMatchDuration.Observe(time.Since(start).Seconds())
	for i := range res.UsersData {
		metrics.CandidatesScored.Add(float64(countScored(&res.UsersData[i].Match.Data)))
	}
	metrics.RequestsTotal.WithLabelValues("match_all", "ok").Inc()
	writeJSON(w, http.StatusOK, res)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/admin/register
func (rt *Router) handleAdminRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, "admin_register", services.NewInvalidError("invalid json body"))
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password)
	if err != nil {
		rt.writeError(w, "admin_register", err)
		return
	}
	metrics.RequestsTotal.WithLabelValues("admin_register", "ok").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"token": res.Token, "admin_id": res.AdminID, "role": res.Role})
}

// POST /api/admin/login
func (rt *Router) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, "admin_login", services.NewInvalidError("invalid json body"))
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		rt.writeError(w, "admin_login", err)
		return
	}
	metrics.RequestsTotal.WithLabelValues("admin_login", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"token": res.Token, "admin_id": res.AdminID, "role": res.Role})
}

// GET /api/audit
func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	metrics.RequestsTotal.WithLabelValues("audit", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"entries": rt.store.ListAudit()})
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

func countScored(b *services.TierBuckets) int {
	return b.Count(services.TierSuperMatch) + b.Count(services.TierGoodMatch) +
		b.Count(services.TierMatch) + b.Count(services.TierMaybeMatch)
}
