package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Zerr0-C00L/StreamHub/internal/models"
)

var testUser = &models.User{ID: 7, Name: "Ada", Email: "ada@example.com", Role: models.RoleAdmin}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "streamhub")

	token, err := m.Generate(testUser)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != 7 || claims.Email != "ada@example.com" || !claims.IsAdmin() || claims.Issuer != "streamhub" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenValidationErrors(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "streamhub")
	token, _ := m.Generate(testUser)

	other := NewTokenManager("other-secret", time.Hour, "streamhub")
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret error = %v", err)
	}

	if _, err := m.Validate("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage error = %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := m.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired error = %v", err)
	}
}

func TestEmptySecretIsRandom(t *testing.T) {
	a := NewTokenManager("", time.Hour, "x")
	b := NewTokenManager("", time.Hour, "x")
	token, _ := a.Generate(testUser)
	if _, err := b.Validate(token); err == nil {
		t.Error("tokens from different random secrets must not validate")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter22" {
		t.Fatal("password stored in clear")
	}
	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword(wrong) = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "streamhub")
	adminToken, _ := m.Generate(testUser)
	userToken, _ := m.Generate(&models.User{ID: 8, Name: "Bob", Email: "bob@example.com", Role: models.RoleUser})

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := GetUserFromContext(r.Context())
		w.Write([]byte(claims.Name))
	})

	tests := []struct {
		name       string
		handler    http.Handler
		header     string
		wantCode   int
		wantInBody string
	}{
		{"no header", m.Middleware(ok), "", 401, "Authentication required"},
		{"wrong scheme", m.Middleware(ok), "Basic abc", 401, "Invalid token format"},
		{"bad token", m.Middleware(ok), "Bearer nope", 401, "Invalid token"},
		{"valid", m.Middleware(ok), "Bearer " + userToken, 200, "Bob"},
		{"admin route as user", m.Middleware(RequireAdmin(ok)), "Bearer " + userToken, 403, "Admin access required"},
		{"admin route as admin", m.Middleware(RequireAdmin(ok)), "Bearer " + adminToken, 200, "Ada"},
		{"admin without auth", RequireAdmin(ok), "", 401, "Authentication required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/streams", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantInBody) {
				t.Errorf("body = %q, want to contain %q", rec.Body.String(), tt.wantInBody)
			}
		})
	}
}
