package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("s"), Issuer: "api", TTL: time.Hour}

	tok, err := j.Issue(42, true)
	if err != nil || tok == "" {
		t.Fatalf("issue: %q %v", tok, err)
	}

	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UID != 42 || !claims.Superuser {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Issuer != "api" {
		t.Fatalf("issuer mismatch: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	a := &JWTer{Secret: []byte("one"), Issuer: "api", TTL: time.Hour}
	b := &JWTer{Secret: []byte("two"), Issuer: "api", TTL: time.Hour}

	tok, err := a.Issue(1, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	a := &JWTer{Secret: []byte("s"), Issuer: "other", TTL: time.Hour}
	b := &JWTer{Secret: []byte("s"), Issuer: "api", TTL: time.Hour}

	tok, err := a.Issue(1, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Fatalf("expected parse failure with wrong issuer")
	}
}
