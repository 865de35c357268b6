package hash

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}

	hashed, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "s3cret" || strings.Contains(hashed, "s3cret") {
		t.Fatalf("hash leaks plaintext: %q", hashed)
	}
	if !h.Verify("s3cret", hashed) {
		t.Fatalf("correct password rejected")
	}
	if h.Verify("wrong", hashed) {
		t.Fatalf("wrong password accepted")
	}
}

func TestBcryptSalted(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("two hashes of the same input must differ")
	}
	if !h.Verify("same", a) || !h.Verify("same", b) {
		t.Fatalf("both salted hashes must verify")
	}
}

func TestBcryptDefaultCost(t *testing.T) {
	hashed, err := Bcrypt{}.Hash("pw")
	if err != nil {
		t.Fatalf("hash with default cost: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", cost)
	}
}
