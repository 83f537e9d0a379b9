package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cardmart-next/internal/cache"
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/metrics"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type fakeTokenParser struct {
	claims *service.TokenClaims
	err    error
}

func (f fakeTokenParser) ParseAccessToken(string) (*service.TokenClaims, error) {
	return f.claims, f.err
}

type fakeStateLoader struct {
	state *cache.UserAuthState
}

func (f fakeStateLoader) LoadAuthState(context.Context, string) (*cache.UserAuthState, error) {
	return f.state, nil
}

func newJWTTestEngine(parser AccessTokenParser, loader AuthStateLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(parser, loader))
	r.GET("/api/v1/ping", func(c *gin.Context) {
		principal, ok := handlershared.GetPrincipal(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": principal.UserID, "permissions": principal.Permissions})
	})
	return r
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) response.Problem {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, response.ProblemContentType) {
		t.Fatalf("content type want %s got %s", response.ProblemContentType, ct)
	}
	var problem response.Problem
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("unmarshal problem failed: %v", err)
	}
	return problem
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	r := newJWTTestEngine(fakeTokenParser{}, fakeStateLoader{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	problem := decodeProblem(t, w)
	if problem.Instance != "/api/v1/ping" {
		t.Fatalf("instance want /api/v1/ping got %s", problem.Instance)
	}
}

func TestJWTAuthMiddlewareInvalidToken(t *testing.T) {
	r := newJWTTestEngine(fakeTokenParser{err: service.ErrInvalidToken}, fakeStateLoader{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer broken")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	if problem := decodeProblem(t, w); problem.Type != "about:blank#InvalidToken" {
		t.Fatalf("unexpected problem type: %s", problem.Type)
	}
}

func TestJWTAuthMiddlewareDisabledAccount(t *testing.T) {
	claims := &service.TokenClaims{}
	claims.Subject = "kaiba@example.com"
	r := newJWTTestEngine(fakeTokenParser{claims: claims}, fakeStateLoader{state: &cache.UserAuthState{UserID: 3, Email: claims.Subject, Active: false}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	if problem := decodeProblem(t, w); problem.Detail != "account disabled" {
		t.Fatalf("detail want account disabled got %s", problem.Detail)
	}
}

func TestJWTAuthMiddlewareBuildsPrincipal(t *testing.T) {
	claims := &service.TokenClaims{}
	claims.Subject = "yugi@example.com"
	state := &cache.UserAuthState{UserID: 7, Email: claims.Subject, Permissions: []string{"CUSTOMER"}, Active: true}
	r := newJWTTestEngine(fakeTokenParser{claims: claims}, fakeStateLoader{state: state})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		UserID      uint     `json:"user_id"`
		Permissions []string `json:"permissions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.UserID != 7 || len(resp.Permissions) != 1 || resp.Permissions[0] != "CUSTOMER" {
		t.Fatalf("unexpected principal: %+v", resp)
	}
}

func TestMetricsMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New("router_test")

	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/api/v1/order/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/order/42", nil))

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather metrics failed: %v", err)
	}
	found := false
	for _, family := range families {
		if family.GetName() != "router_test_http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "route" && label.GetValue() == "/api/v1/order/:id" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected request counter labelled with route template")
	}
}
