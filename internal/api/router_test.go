package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parking_enforcement/internal/api/handler"
	"parking_enforcement/internal/api/middleware"
	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "router-test-secret"

// stubAreaRepo serves the area list; the other methods are not routed to in
// these tests.
type stubAreaRepo struct {
	repository.AreaRepository
	areas []domain.AreaSummary
}

func (r stubAreaRepo) ParkingInfo(context.Context) ([]domain.AreaSummary, error) {
	return append([]domain.AreaSummary(nil), r.areas...), nil
}

var testAreas = []domain.AreaSummary{
	{Area: domain.Area{ID: 1, Name: "Bukit Bintang", Latitude: 3.1466, Longitude: 101.7110}},
	{Area: domain.Area{ID: 2, Name: "Johor Bahru", Latitude: 1.4927, Longitude: 103.7414}},
}

// newTestRouter wires services without repositories apart from the area list;
// every other request below is answered before a repository would be reached.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()

	auth := service.NewAuthService(nil, nil, testSecret, time.Hour, log)
	parking := service.NewParkingService(nil, nil, nil, nil, nil, log)
	svc := Services{
		Auth:        auth,
		Parking:     parking,
		Inventory:   service.NewInventoryService(stubAreaRepo{areas: testAreas}, nil, nil, 1, log),
		Reports:     service.NewReportService(nil, nil, nil, log),
		Compounds:   service.NewCompoundService(nil, nil, parking, service.NewLPRService(nil, log), nil, log),
		Officials:   service.NewOfficialService(nil),
		Transaction: service.NewTransactionService(nil),
	}
	ws := handler.NewWebSocketHandler(handler.NewWebSocketManager(log), parking, time.Minute, log)
	return SetupRouter(svc, middleware.NewAuthMiddleware(auth, log), ws)
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         "user-1",
		"exp":         time.Now().Add(time.Hour).Unix(),
		"iat":         time.Now().Unix(),
		"role":        role,
		"email":       "officer@dbkl.gov.my",
		"official_id": 7,
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthentication(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me/menu", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := do(r, http.MethodGet, "/api/v1/me/menu?access_token="+tokenFor(t, "enforcement"), "", "")
	assert.Equal(t, http.StatusOK, w.Code, "query token is accepted")
}

func TestMenuFollowsRole(t *testing.T) {
	r := newTestRouter(t)

	var body struct {
		Role  string `json:"role"`
		Items []struct {
			Key string `json:"key"`
		} `json:"items"`
	}

	w := do(r, http.MethodGet, "/api/v1/me/menu", tokenFor(t, "enforcement"), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "enforcement", body.Role)
	assert.Len(t, body.Items, 4)

	w = do(r, http.MethodGet, "/api/v1/me/menu", tokenFor(t, "city"), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Items, 7)
}

func TestRoleGating(t *testing.T) {
	r := newTestRouter(t)
	enforcement := tokenFor(t, "enforcement")

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/officials", enforcement, "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/api/v1/areas", enforcement, `{}`).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/api/v1/functions/create-account", enforcement, `{}`).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/me", tokenFor(t, "visitor"), "").Code)
}

func TestRequestValidation(t *testing.T) {
	r := newTestRouter(t)
	city := tokenFor(t, "city")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non numeric area", http.MethodGet, "/api/v1/areas/abc/inventory", ""},
		{"zero session", http.MethodGet, "/api/v1/sessions/0", ""},
		{"negative compound", http.MethodPost, "/api/v1/compounds/-3/pay", `{}`},
		{"session without plate", http.MethodPost, "/api/v1/sessions", `{"parking_spot_id":1,"duration_minutes":30}`},
		{"spot with unknown type", http.MethodPost, "/api/v1/spots", `{"street_id":1,"latitude":3.1,"longitude":101.7,"type":"blue"}`},
		{"account with short password", http.MethodPost, "/api/v1/functions/create-account",
			`{"email":"a@b.my","password":"123","name":"A","official_id":"X","type":"city"}`},
		{"area origin out of range", http.MethodGet, "/api/v1/areas?lat=123&lon=101", ""},
		{"report status unknown", http.MethodPatch, "/api/v1/reports/1/status", `{"status":"closed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, city, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestCountdownRejectsBadSessionID(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/ws/sessions/abc/countdown", tokenFor(t, "enforcement"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithCORS(t *testing.T) {
	h := WithCORS(newTestRouter(t), []string{"https://enforcer.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/areas", nil)
	req.Header.Set("Origin", "https://enforcer.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://enforcer.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestListAreas_EquatorAndMeridianAreValidOrigins(t *testing.T) {
	r := newTestRouter(t)
	token := tokenFor(t, "enforcement")

	var areas []domain.AreaSummary
	w := do(r, http.MethodGet, "/api/v1/areas?lat=0&lon=103.8", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &areas))
	require.Len(t, areas, 2)
	assert.Equal(t, "Johor Bahru", areas[0].Name)
	require.NotNil(t, areas[0].DistanceKm)
	assert.InDelta(t, 166, *areas[0].DistanceKm, 2)

	w = do(r, http.MethodGet, "/api/v1/areas?lat=3.15&lon=0", token, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/areas?lat=0", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "lon is required once lat is given")

	var unranked []domain.AreaSummary
	w = do(r, http.MethodGet, "/api/v1/areas", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unranked))
	assert.Equal(t, "Bukit Bintang", unranked[0].Name)
	assert.Nil(t, unranked[0].DistanceKm)
}
