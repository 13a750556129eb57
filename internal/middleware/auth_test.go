package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chachabrian/parcel-backend/internal/auth"
	"github.com/chachabrian/parcel-backend/internal/testutil"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// protectedEngine mounts a handler that records whether it ran and which
// email it saw.
func protectedEngine(mw ...gin.HandlerFunc) (*gin.Engine, *bool, *string) {
	reached := false
	seen := ""
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		reached = true
		seen = c.GetString("email")
		c.Status(http.StatusOK)
	})
	r.GET("/protected", handlers...)
	return r, &reached, &seen
}

func TestAuthMiddleware(t *testing.T) {
	key := testutil.GenerateKey(t)
	verifier := auth.NewJWTVerifier(&key.PublicKey)
	valid := testutil.SignToken(t, key, "a@b.com", time.Hour)
	expired := testutil.SignToken(t, key, "a@b.com", -time.Hour)

	tests := []struct {
		name    string
		header  string
		want    int
		reached bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"no bearer prefix", valid, http.StatusUnauthorized, false},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, false},
		{"empty token", "Bearer ", http.StatusUnauthorized, false},
		{"blank token", "Bearer    ", http.StatusUnauthorized, false},
		{"garbage token", "Bearer abc.def.ghi", http.StatusForbidden, false},
		{"expired token", testutil.BearerHeader(expired), http.StatusForbidden, false},
		{"valid token", testutil.BearerHeader(valid), http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, reached, seen := protectedEngine(AuthMiddleware(verifier))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if *reached != tt.reached {
				t.Errorf("handler reached = %v, want %v", *reached, tt.reached)
			}
			if tt.reached && *seen != "a@b.com" {
				t.Errorf("expected email to be attached, got %q", *seen)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	key := testutil.GenerateKey(t)
	verifier := auth.NewJWTVerifier(&key.PublicKey)

	r, reached, seen := protectedEngine(OptionalAuth(verifier))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if rec.Code != http.StatusOK || !*reached || *seen != "" {
		t.Errorf("anonymous request should pass without identity: code=%d reached=%v email=%q", rec.Code, *reached, *seen)
	}

	r, reached, _ = protectedEngine(OptionalAuth(verifier))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || *reached {
		t.Errorf("invalid token must be rejected: code=%d reached=%v", rec.Code, *reached)
	}

	r, _, seen = protectedEngine(OptionalAuth(verifier))
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", testutil.BearerHeader(testutil.SignToken(t, key, "x@y.com", time.Hour)))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || *seen != "x@y.com" {
		t.Errorf("valid token should attach identity: code=%d email=%q", rec.Code, *seen)
	}
}

func TestRequireQueryEmailMatch(t *testing.T) {
	key := testutil.GenerateKey(t)
	verifier := auth.NewJWTVerifier(&key.PublicKey)
	token := testutil.BearerHeader(testutil.SignToken(t, key, "a@b.com", time.Hour))

	tests := []struct {
		name    string
		query   string
		want    int
		reached bool
	}{
		{"matching email", "?email=a@b.com", http.StatusOK, true},
		{"other email", "?email=x@y.com", http.StatusForbidden, false},
		{"no email", "", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, reached, _ := protectedEngine(AuthMiddleware(verifier), RequireQueryEmailMatch("email"))

			req := httptest.NewRequest(http.MethodGet, "/protected"+tt.query, nil)
			req.Header.Set("Authorization", token)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if *reached != tt.reached {
				t.Errorf("handler reached = %v, want %v", *reached, tt.reached)
			}
		})
	}
}

func TestRequireQueryEmailMatch_WithoutAuth(t *testing.T) {
	r, reached, _ := protectedEngine(RequireQueryEmailMatch("email"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected?email=a@b.com", nil))

	if rec.Code != http.StatusUnauthorized || *reached {
		t.Errorf("guard without claims must reject: code=%d reached=%v", rec.Code, *reached)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := bearerToken("Bearer abc"); !ok || tok != "abc" {
		t.Errorf("expected abc, got %q (%v)", tok, ok)
	}
	if _, ok := bearerToken("bearer abc"); ok {
		t.Error("scheme is case sensitive")
	}
}
