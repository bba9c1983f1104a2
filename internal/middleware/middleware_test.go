package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type issuerAuth struct {
	issuer  *auth.Issuer
	revoked map[string]bool
}

func (a issuerAuth) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	claims, err := a.issuer.Parse(token)
	if err != nil {
		return nil, &services.Error{Kind: services.ErrUnauthorized, Detail: "Could not validate credentials"}
	}
	if a.revoked[claims.ID] {
		return nil, &services.Error{Kind: services.ErrUnauthorized, Detail: "Token has been revoked"}
	}
	return claims, nil
}

func newAuthRouter(t *testing.T, authn Authenticator, roles ...string) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/private", Auth(authn, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet(UserIDKey).(uint), "role": c.GetString(RoleKey)})
	})
	return r
}

func TestAuth(t *testing.T) {
	issuer, _ := auth.NewIssuer("secret", "HS256", time.Hour)
	waiterToken, waiterClaims, _ := issuer.Issue(7, "waiter")
	adminToken, _, _ := issuer.Issue(1, "admin")
	revokedToken, revokedClaims, _ := issuer.Issue(8, "waiter")
	authn := issuerAuth{issuer: issuer, revoked: map[string]bool{revokedClaims.ID: true}}

	tests := []struct {
		name   string
		header string
		roles  []string
		want   int
	}{
		{"missing header", "", nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", nil, http.StatusUnauthorized},
		{"revoked token", "Bearer " + revokedToken, nil, http.StatusUnauthorized},
		{"valid token", "Bearer " + waiterToken, nil, http.StatusOK},
		{"role required, missing", "Bearer " + waiterToken, []string{"admin"}, http.StatusForbidden},
		{"role required, present", "Bearer " + adminToken, []string{"admin"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(t, authn, tt.roles...)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if w.Code == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate header")
			}
			if w.Code != http.StatusOK {
				var body map[string]string
				json.Unmarshal(w.Body.Bytes(), &body)
				if body["detail"] == "" {
					t.Errorf("error body without detail: %s", w.Body.String())
				}
			}
		})
	}

	r := newAuthRouter(t, authn)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+waiterToken)
	r.ServeHTTP(w, req)
	var body struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if id, _ := waiterClaims.UserID(); body.UserID != id || body.Role != "waiter" {
		t.Errorf("context = %+v", body)
	}
}

func TestRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), AccessLog(logger.NewWithWriter("test", "info", &buf)))
	r.GET("/ping", func(c *gin.Context) {
		if logger.RequestID(c.Request.Context()) != GetRequestID(c) {
			t.Error("request context lost the request id")
		}
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "given-id" {
		t.Errorf("response request id = %q", got)
	}
	if !strings.Contains(buf.String(), `"request_id":"given-id"`) || !strings.Contains(buf.String(), `"path":"/ping"`) {
		t.Errorf("access log = %s", buf.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("no request id minted")
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allowed origin = %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", w.Code)
	}
}
