package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/registry"
	authsvc "stayhub/internal/app/services/auth"
	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/infra/validation"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

var today = time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)

type capturePublisher struct {
	records []appoutbox.EventRecord
}

func (p *capturePublisher) Publish(_ context.Context, rec appoutbox.EventRecord) error {
	p.records = append(p.records, rec)
	return nil
}

type harness struct {
	router    *gin.Engine
	published *capturePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	now := func() time.Time { return today }
	publisher := &capturePublisher{}
	box := memory.NewOutbox(publisher)
	factory := memory.NewFactory(memory.NewStore(), box)

	buses := registry.Build(registry.Deps{
		UoW:         factory,
		Outbox:      box,
		Idempotency: memory.NewIdempotencyStore(),
		Validator:   validation.New(),
		Seeding:     registry.DefaultSeeding(90, 365, 180, 30, nil),
		Timeout:     5 * time.Second,
		Now:         now,
	})
	auth := &authsvc.Service{
		Users:     memory.NewUserRepository(),
		Sessions:  memory.NewSessionStore(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
	}
	if err := auth.EnsureAdmin(context.Background(), adminEmail, adminPassword); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	responder := ErrorResponder{}
	router := NewRouter(config.Config{Env: "test"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Search:         SearchHandler{Queries: buses.Queries, ErrorResponder: responder},
		Catalog:        CatalogHandler{Queries: buses.Queries, ErrorResponder: responder},
		Auth:           AuthHandler{Service: auth, ErrorResponder: responder},
		Host:           HostHandler{Commands: buses.Commands, Queries: buses.Queries, ErrorResponder: responder},
		Admin:          AdminHandler{Commands: buses.Commands, Auth: auth, ErrorResponder: responder},
		AuthMiddleware: AuthMiddleware{Service: auth}.Handle,
	})
	return &harness{router: router, published: publisher}
}

func (h *harness) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)
	return out.Token
}

func (h *harness) host(t *testing.T, adminToken, email string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/v1/admin/hosts", adminToken, map[string]string{
		"email": email, "name": "Host", "password": "host-password",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create host: status %d body %s", rec.Code, rec.Body.String())
	}
	return h.login(t, email, "host-password")
}

type createdProperty struct {
	ID        string `json:"id"`
	RoomTypes []struct {
		ID    string `json:"id"`
		Rooms []struct {
			ID string `json:"id"`
		} `json:"rooms"`
	} `json:"room_types"`
}

func (h *harness) createProperty(t *testing.T, token, idemKey string) createdProperty {
	t.Helper()
	body := map[string]any{
		"title":    "Harbour View",
		"location": map[string]any{"city": "Lisbon", "country": "PT"},
		"room_types": []map[string]any{{
			"name":               "Double",
			"base_price_cents":   12000,
			"occupancy":          2,
			"extra_bed_capacity": 1,
			"rooms":              []map[string]any{{"name": "101"}, {"name": "102"}},
		}},
	}
	var headers []string
	if idemKey != "" {
		headers = []string{"Idempotency-Key", idemKey}
	}
	rec := h.do(t, http.MethodPost, "/api/v1/host/properties", token, body, headers...)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create property: status %d body %s", rec.Code, rec.Body.String())
	}
	var out createdProperty
	decode(t, rec, &out)
	if len(out.RoomTypes) != 1 || len(out.RoomTypes[0].Rooms) != 2 {
		t.Fatalf("unexpected property shape %+v", out)
	}
	return out
}

type searchBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []struct {
		TotalCapacity int `json:"total_capacity"`
		Nights        int `json:"nights"`
		Property      struct {
			ID string `json:"id"`
		} `json:"property"`
	} `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestSearchRejectsEqualDates(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/v1/properties/search?checkIn=2025-01-10&checkOut=2025-01-10&adults=1", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body searchBody
	decode(t, rec, &body)
	if body.Success || body.Message == "" {
		t.Fatalf("expected failure envelope, got %s", rec.Body.String())
	}
}

func TestSearchValidationFailures(t *testing.T) {
	h := newHarness(t)
	cases := map[string]string{
		"missing dates":  "/api/v1/properties/search?adults=1",
		"bad date":       "/api/v1/properties/search?checkIn=2025-06-31&checkOut=2025-07-02&adults=1",
		"past check-in":  "/api/v1/properties/search?checkIn=2025-05-01&checkOut=2025-05-03&adults=1",
		"no guests":      "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03",
		"negative count": "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=2&children=-1",
		"non numeric":    "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=two",
		"overflowing":    "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=9223372036854775807&children=1",
		"too many rooms": "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=1&rooms=100000",
	}
	for name, path := range cases {
		rec := h.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d (%s)", name, rec.Code, rec.Body.String())
		}
	}
}

func TestHugePartyNeverMatchesSmallProperty(t *testing.T) {
	h := newHarness(t)
	admin := h.login(t, adminEmail, adminPassword)
	host := h.host(t, admin, "host@example.com")
	h.createProperty(t, host, "")

	rec := h.do(t, http.MethodGet, "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=9223372036854775807&children=1", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	var body searchBody
	decode(t, rec, &body)
	if body.Success || len(body.Data) != 0 {
		t.Fatalf("oversized party must not return stays: %+v", body)
	}
}

func TestCreatedPropertyIsSearchable(t *testing.T) {
	h := newHarness(t)
	admin := h.login(t, adminEmail, adminPassword)
	host := h.host(t, admin, "host@example.com")
	created := h.createProperty(t, host, "")

	rec := h.do(t, http.MethodGet, "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=3", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status %d body %s", rec.Code, rec.Body.String())
	}
	var body searchBody
	decode(t, rec, &body)
	if !body.Success || len(body.Data) != 1 {
		t.Fatalf("expected one result, got %s", rec.Body.String())
	}
	got := body.Data[0]
	if got.Property.ID != created.ID || got.TotalCapacity != 6 || got.Nights != 2 {
		t.Fatalf("unexpected result %+v", got)
	}

	rec = h.do(t, http.MethodGet, "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=7", "", nil)
	decode(t, rec, &body)
	if rec.Code != http.StatusOK || len(body.Data) != 0 || body.Message == "" {
		t.Fatalf("expected empty result with message, got %d %s", rec.Code, rec.Body.String())
	}
	if len(h.published.records) == 0 {
		t.Fatalf("expected committed events to be published")
	}
}

func TestBlockedNightShrinksCapacity(t *testing.T) {
	h := newHarness(t)
	admin := h.login(t, adminEmail, adminPassword)
	host := h.host(t, admin, "host@example.com")
	created := h.createProperty(t, host, "")
	room := created.RoomTypes[0].Rooms[0].ID

	rec := h.do(t, http.MethodPost, "/api/v1/host/rooms/"+room+"/availability", host, map[string]string{
		"from": "2025-06-02", "to": "2025-06-03", "status": "blocked",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("block night: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = h.do(t, http.MethodGet, "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=3", "", nil)
	var body searchBody
	decode(t, rec, &body)
	if len(body.Data) != 1 || body.Data[0].TotalCapacity != 3 {
		t.Fatalf("expected capacity 3 from the free room, got %s", rec.Body.String())
	}
	rec = h.do(t, http.MethodGet, "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=3&children=1", "", nil)
	decode(t, rec, &body)
	if len(body.Data) != 0 {
		t.Fatalf("expected property excluded for 4 guests, got %s", rec.Body.String())
	}

	rec = h.do(t, http.MethodGet, "/api/v1/rooms/"+room+"/calendar?from=2025-06-01&to=2025-06-04", "", nil)
	var cal struct {
		Days []struct {
			Date   string `json:"date"`
			Status string `json:"status"`
		} `json:"days"`
	}
	decode(t, rec, &cal)
	if len(cal.Days) != 3 || cal.Days[1].Status != "blocked" || cal.Days[0].Status != "available" {
		t.Fatalf("unexpected calendar %s", rec.Body.String())
	}
}

func TestCreatePropertyReplaysIdempotencyKey(t *testing.T) {
	h := newHarness(t)
	admin := h.login(t, adminEmail, adminPassword)
	host := h.host(t, admin, "host@example.com")

	first := h.createProperty(t, host, "create-1")
	second := h.createProperty(t, host, "create-1")
	if first.ID != second.ID {
		t.Fatalf("expected replayed id %s, got %s", first.ID, second.ID)
	}
	rec := h.do(t, http.MethodGet, "/api/v1/host/properties", host, nil)
	var list struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decode(t, rec, &list)
	if len(list.Items) != 1 {
		t.Fatalf("expected one stored property, got %s", rec.Body.String())
	}
}

func TestHostAndAdminRoutesRequireRoles(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(t, http.MethodGet, "/api/v1/host/properties", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := h.do(t, http.MethodGet, "/api/v1/host/properties", "not-a-token", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", rec.Code)
	}
	admin := h.login(t, adminEmail, adminPassword)
	host := h.host(t, admin, "host@example.com")
	rec := h.do(t, http.MethodPost, "/api/v1/admin/vocabulary", host, map[string]string{"kind": "amenity", "name": "Wifi"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for host on admin route, got %d", rec.Code)
	}
	rec = h.do(t, http.MethodPost, "/api/v1/admin/vocabulary", admin, map[string]string{"kind": "amenity", "name": "Wifi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d %s", rec.Code, rec.Body.String())
	}
	rec = h.do(t, http.MethodGet, "/api/v1/vocabulary/amenity", "", nil)
	var vocab struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	decode(t, rec, &vocab)
	if len(vocab.Items) != 1 || vocab.Items[0].Name != "Wifi" {
		t.Fatalf("unexpected vocabulary %s", rec.Body.String())
	}
}

func TestForeignPropertyReadsAsMissing(t *testing.T) {
	h := newHarness(t)
	admin := h.login(t, adminEmail, adminPassword)
	owner := h.host(t, admin, "owner@example.com")
	other := h.host(t, admin, "other@example.com")
	created := h.createProperty(t, owner, "")

	if rec := h.do(t, http.MethodDelete, "/api/v1/host/properties/"+created.ID, other, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign property, got %d", rec.Code)
	}
	if rec := h.do(t, http.MethodDelete, "/api/v1/host/properties/"+created.ID, owner, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected owner delete to succeed, got %d %s", rec.Code, rec.Body.String())
	}
	if rec := h.do(t, http.MethodGet, "/api/v1/properties/"+created.ID, "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected deleted property to be missing, got %d", rec.Code)
	}
	rec := h.do(t, http.MethodGet, "/api/v1/properties/search?checkIn=2025-06-01&checkOut=2025-06-03&adults=1", "", nil)
	var body searchBody
	decode(t, rec, &body)
	if len(body.Data) != 0 {
		t.Fatalf("deleted property must not be searchable, got %s", rec.Body.String())
	}
}

func TestAdminReseedSkipsExistingNights(t *testing.T) {
	h := newHarness(t)
	admin := h.login(t, adminEmail, adminPassword)
	host := h.host(t, admin, "host@example.com")
	created := h.createProperty(t, host, "")
	room := created.RoomTypes[0].Rooms[0].ID

	rec := h.do(t, http.MethodPost, "/api/v1/admin/rooms/"+room+"/seed", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reseed: status %d body %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Inserted int `json:"inserted"`
		Skipped  int `json:"skipped"`
	}
	decode(t, rec, &report)
	if report.Inserted != 0 || report.Skipped != 90 {
		t.Fatalf("expected all 90 nights skipped, got %+v", report)
	}
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": adminEmail, "password": "wrong"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}
	token := h.login(t, adminEmail, adminPassword)
	rec := h.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d", rec.Code)
	}
	if rec := h.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d", rec.Code)
	}
	if rec := h.do(t, http.MethodGet, "/api/v1/auth/me", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

type stubQueries struct {
	err error
}

func (s stubQueries) Ask(context.Context, queries.Query) (any, error) {
	return nil, s.err
}

func TestStatusMappingAtTheEdge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name    string
		err     error
		verbose bool
		status  int
		message string
	}{
		{"timeout", fmt.Errorf("%w: search.stays", middleware.ErrTimeout), false, http.StatusGatewayTimeout, ""},
		{"hidden", errors.New("db exploded"), false, http.StatusInternalServerError, internalErrorMessage},
		{"verbose", errors.New("db exploded"), true, http.StatusInternalServerError, "db exploded"},
	}
	for _, tc := range cases {
		router := gin.New()
		router.GET("/search", SearchHandler{Queries: stubQueries{err: tc.err}, ErrorResponder: ErrorResponder{Verbose: tc.verbose}}.Search)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?checkIn=2025-06-01&checkOut=2025-06-02&adults=1", nil))
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
		var body searchBody
		decode(t, rec, &body)
		if body.Success {
			t.Fatalf("%s: expected success=false", tc.name)
		}
		if tc.message != "" && body.Message != tc.message {
			t.Fatalf("%s: expected message %q, got %q", tc.name, tc.message, body.Message)
		}
	}
}
