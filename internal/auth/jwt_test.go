package auth

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestParseFromHeader_ValidBearer(t *testing.T) {
	tok, err := IssueToken(testSecret, "dispatcher", "admin", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := ParseFromHeader("Bearer "+tok, testSecret)
	if err != nil {
		t.Fatalf("ParseFromHeader: %v", err)
	}
	if p.Name != "dispatcher" || p.Kind != "admin" {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseFromHeader_MissingHeader(t *testing.T) {
	if _, err := ParseFromHeader("", testSecret); err == nil {
		t.Fatalf("expected error for missing header")
	}
}

func TestParseFromHeader_InvalidScheme(t *testing.T) {
	tok, _ := IssueToken(testSecret, "x", "driver", time.Hour)
	if _, err := ParseFromHeader("Basic "+tok, testSecret); err == nil {
		t.Fatalf("expected error for non-Bearer scheme")
	}
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParseJWT_ClaimsValidation(t *testing.T) {
	// Missing name/kind -> invalid
	tok, err := IssueToken(testSecret, "", "", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected invalid claims error")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	tok, err := IssueToken(testSecret, "dispatcher", "admin", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestVerifyPassword(t *testing.T) {
	if !VerifyPassword("s3cret", "s3cret") {
		t.Fatal("matching password rejected")
	}
	if VerifyPassword("wrong", "s3cret") {
		t.Fatal("wrong password accepted")
	}
	if VerifyPassword("", "") {
		t.Fatal("empty expected password must never verify")
	}
}
