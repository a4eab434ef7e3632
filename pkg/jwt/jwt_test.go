package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	token, issued, err := GenerateToken("secret", 42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", claims.UserID)
	}
	if claims.TokenID == "" || claims.TokenID != issued.TokenID {
		t.Fatalf("TokenID = %q, want %q", claims.TokenID, issued.TokenID)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	t.Parallel()

	valid, _, err := GenerateToken("secret", 1, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	expired, _, err := GenerateToken("secret", 1, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", valid},
		{"expired", "secret", expired},
		{"garbage", "secret", "not-a-token"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseToken(tt.secret, tt.token); err == nil {
				t.Fatal("expected ParseToken() to fail")
			}
		})
	}
}
