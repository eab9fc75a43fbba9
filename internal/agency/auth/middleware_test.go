package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestHTTPMiddleware(t *testing.T) {
	const (
		validSecret   = "test-secret"
		invalidSecret = "wrong-secret"
	)
	userID := uuid.New()

	// Helper to generate test tokens
	generateToken := func(secret string, sub string, expiresAt time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":    sub,
			"agency": "Acme Staffing",
			"exp":    expiresAt.Unix(),
		})
		tokenString, _ := token.SignedString([]byte(secret))
		return tokenString
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + generateToken(validSecret, userID.String(), time.Now().Add(1*time.Hour)),
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid signature",
			authHeader: "Bearer " + generateToken(invalidSecret, userID.String(), time.Now().Add(1*time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + generateToken(validSecret, userID.String(), time.Now().Add(-1*time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "sub is not a uuid",
			authHeader: "Bearer " + generateToken(validSecret, "not-a-uuid", time.Now().Add(1*time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "InvalidPrefix token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				identity, ok := UserFromContext(r.Context())
				if !ok {
					t.Error("identity not in context")
				}
				if identity.UserID != userID {
					t.Errorf("expected user %s, got %s", userID, identity.UserID)
				}
				if identity.Agency != "Acme Staffing" {
					t.Errorf("unexpected agency %q", identity.Agency)
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/agency/v1/jobs", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			HTTPMiddleware(handler, validSecret).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantToken  string
		wantErr    bool
	}{
		{
			name:       "valid authorization header",
			authHeader: "Bearer valid-token",
			wantToken:  "valid-token",
		},
		{
			name:    "missing authorization header",
			wantErr: true,
		},
		{
			name:       "malformed authorization header",
			authHeader: "InvalidPrefix valid-token",
			wantErr:    true,
		},
		{
			name:       "empty bearer token",
			authHeader: "Bearer ",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			token, err := extractTokenFromHeader(req)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("expected token %q, got %q", tt.wantToken, token)
			}
		})
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	userID := uuid.New()

	tokenString, err := GenerateToken(userID, "Acme Staffing", secret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := validateToken(tokenString, secret)
	if err != nil {
		t.Fatalf("validateToken: %v", err)
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		t.Fatalf("identityFromClaims: %v", err)
	}
	if identity.UserID != userID {
		t.Errorf("expected user %s, got %s", userID, identity.UserID)
	}
	if identity.Agency != "Acme Staffing" {
		t.Errorf("unexpected agency %q", identity.Agency)
	}
}

func TestValidateToken(t *testing.T) {
	const validSecret = "test-secret"
	validToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user123",
		"exp": time.Now().Add(1 * time.Hour).Unix(),
	})
	validTokenString, _ := validToken.SignedString([]byte(validSecret))

	tests := []struct {
		name        string
		tokenString string
		secret      string
		wantValid   bool
	}{
		{
			name:        "valid token",
			tokenString: validTokenString,
			secret:      validSecret,
			wantValid:   true,
		},
		{
			name:        "invalid signature",
			tokenString: validTokenString,
			secret:      "wrong-secret",
			wantValid:   false,
		},
		{
			name: "expired token",
			tokenString: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"exp": time.Now().Add(-1 * time.Hour).Unix(),
				})
				tokenString, _ := token.SignedString([]byte(validSecret))
				return tokenString
			}(),
			secret:    validSecret,
			wantValid: false,
		},
		{
			name:        "malformed token",
			tokenString: "invalid.token.string",
			secret:      validSecret,
			wantValid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := validateToken(tt.tokenString, tt.secret)

			if tt.wantValid {
				if err != nil {
					t.Errorf("expected valid token, got error: %v", err)
				}
				if claims["sub"] != "user123" {
					t.Error("claims not properly parsed")
				}
			} else {
				if err == nil {
					t.Error("expected invalid token, got no error")
				}
			}
		})
	}
}
