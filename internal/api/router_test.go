package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/pairwise-dev/pairwise/internal/middleware"
	"github.com/pairwise-dev/pairwise/internal/services"
)

func newTestServer(t *testing.T) (*httptest.Server, Store) {
	t.Helper()
	store := NewMemoryStore()
	rt := NewRouter(store, zap.NewNop(), services.DefaultMatchConfig())
	mux := http.NewServeMux()
	rt.Register(mux)
	srv := httptest.NewServer(middleware.WithAuth(mux))
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func registration(name, email, gender, partnerGender string, age int, partnerAges []int, firstOption int) map[string]any {
	return map[string]any{
		"email":          email,
		"name":           name,
		"age":            age,
		"gender":         gender,
		"partner_gender": partnerGender,
		"partner_ages":   partnerAges,
		"questions": []map[string]any{
			{"options": []map[string]any{{"option_no": firstOption, "answer": "camping"}}},
			{"options": []map[string]any{{"option_no": 2}}},
		},
	}
}

func TestRegisterEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/participants", registration("Eva", "eva@x.com", "f", "m", 28, []int{30}, 1))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		BadgeNumber int    `json:"badge_number"`
		Name        string `json:"name"`
	}
	decodeBody(t, resp, &created)
	if created.BadgeNumber != 1 || created.Name != "Eva" {
		t.Fatalf("unexpected response: %+v", created)
	}

	resp = postJSON(t, srv.URL+"/api/participants", registration("Eva2", "eva@x.com", "f", "m", 28, []int{30}, 1))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	bad := registration("", "x@x.com", "f", "m", 28, []int{30}, 1)
	resp = postJSON(t, srv.URL+"/api/participants", bad)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid body status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMatchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/participants", registration("Eva", "eva@x.com", "f", "m", 28, []int{30}, 1))
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/api/participants", registration("Max", "max@x.com", "m", "f", 30, []int{28}, 1))
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/match?name=Eva&badge_number=1")
	if err != nil {
		t.Fatalf("GET /api/match: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var res struct {
		YourBadge  int     `json:"your_badge"`
		TotalScore float64 `json:"total_score"`
		SuperMatch []struct {
			BadgeNumber int     `json:"badge_number"`
			Percentage  float64 `json:"percentage"`
		} `json:"super_match"`
	}
	decodeBody(t, resp, &res)
	if res.YourBadge != 1 {
		t.Fatalf("your_badge = %d, want 1", res.YourBadge)
	}
	// One multi-choice answer (q0) plus one single-choice (q1).
	if res.TotalScore != 20 {
		t.Fatalf("total_score = %v, want 20", res.TotalScore)
	}
	if len(res.SuperMatch) != 1 || res.SuperMatch[0].BadgeNumber != 2 || res.SuperMatch[0].Percentage != 100 {
		t.Fatalf("unexpected super_match: %+v", res.SuperMatch)
	}

	resp, err = http.Get(srv.URL + "/api/match?name=Ghost&badge_number=9")
	if err != nil {
		t.Fatalf("GET /api/match: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown participant status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/match?name=Eva&badge_number=abc")
	if err != nil {
		t.Fatalf("GET /api/match: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad badge status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func adminToken(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/admin/register", map[string]string{"email": "admin@x.com", "password": "Secret123"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin register status = %d, want 201", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatalf("expected token in admin register response")
	}
	return body.Token
}

func TestMatchAllRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/match/all")
	if err != nil {
		t.Fatalf("GET /api/match/all: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMatchAllEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	token := adminToken(t, srv)

	resp := postJSON(t, srv.URL+"/api/participants", registration("Eva", "eva@x.com", "f", "m", 28, []int{30}, 1))
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/api/participants", registration("Max", "max@x.com", "m", "f", 30, []int{28}, 1))
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/match/all?sort_by=showAll&page=1&limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/match/all: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var res struct {
		UsersData []struct {
			Participant struct {
				Name string `json:"name"`
			} `json:"participant"`
			Match struct {
				Data struct {
					SuperMatch []struct {
						BadgeNumber int `json:"badge_number"`
					} `json:"super_match"`
				} `json:"data"`
			} `json:"match"`
		} `json:"users_data"`
		TotalPages int `json:"total_pages"`
	}
	decodeBody(t, resp, &res)
	if res.TotalPages != 1 || len(res.UsersData) != 2 {
		t.Fatalf("unexpected page shape: pages=%d rows=%d", res.TotalPages, len(res.UsersData))
	}
	if res.UsersData[0].Participant.Name != "Max" {
		t.Fatalf("expected most recent participant first, got %s", res.UsersData[0].Participant.Name)
	}
	if len(res.UsersData[0].Match.Data.SuperMatch) != 1 {
		t.Fatalf("expected Max to super-match Eva: %+v", res.UsersData[0].Match.Data)
	}
}

func TestAdminLoginAndAudit(t *testing.T) {
	srv, _ := newTestServer(t)
	adminToken(t, srv)

	resp := postJSON(t, srv.URL+"/api/admin/login", map[string]string{"email": "admin@x.com", "password": "Secret123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)

	resp = postJSON(t, srv.URL+"/api/admin/login", map[string]string{"email": "admin@x.com", "password": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/audit", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	auditResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/audit: %v", err)
	}
	if auditResp.StatusCode != http.StatusOK {
		t.Fatalf("audit status = %d, want 200", auditResp.StatusCode)
	}
	var audit struct {
		Entries []struct {
			Action string `json:"action"`
		} `json:"entries"`
	}
	decodeBody(t, auditResp, &audit)
	if len(audit.Entries) < 2 {
		t.Fatalf("expected register and login audit entries, got %+v", audit.Entries)
	}
}
