package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("6569f2a0b1c2d3e4f5a6b7c8")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "6569f2a0b1c2d3e4f5a6b7c8" {
		t.Errorf("userId = %s, want the issued id", claims.UserID)
	}
	if until := time.Until(claims.ExpiresAt.Time); until > SessionDuration {
		t.Errorf("token valid for %s, want at most %s", until, SessionDuration)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	claims := &Claims{
		UserID: "6569f2a0b1c2d3e4f5a6b7c8",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-SessionDuration - time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateToken(signed); err == nil {
		t.Error("token past its validity window was accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken("6569f2a0b1c2d3e4f5a6b7c8")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("tampered token was accepted")
	}
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("malformed token was accepted")
	}
}

func TestForeignSignatureRejected(t *testing.T) {
	claims := &Claims{
		UserID: "6569f2a0b1c2d3e4f5a6b7c8",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some other secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateToken(signed); err == nil {
		t.Error("token signed with a foreign key was accepted")
	}
}
