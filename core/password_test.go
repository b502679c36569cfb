package core

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !CheckPassword("secret1", hash) {
		t.Fatalf("correct password did not verify")
	}
	if CheckPassword("secret2", hash) {
		t.Fatalf("wrong password verified")
	}
}

func TestHashPasswordSaltedPerCall(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password are identical; salt missing")
	}
	if !CheckPassword("same-password", h1) || !CheckPassword("same-password", h2) {
		t.Fatalf("salted hashes did not both verify")
	}
}

func TestHashPasswordTruncatesAt72Bytes(t *testing.T) {
	base := strings.Repeat("a", 72)
	longer := base + "ignored-tail"

	hash, err := HashPassword(base)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	// Bytes past 72 never influence the hash, so the longer password
	// verifies against the shorter one's hash and vice versa.
	if !CheckPassword(longer, hash) {
		t.Fatalf("password differing only past 72 bytes did not verify")
	}

	longHash, err := HashPassword(longer)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !CheckPassword(base, longHash) {
		t.Fatalf("72-byte password did not verify against longer password's hash")
	}
}

func TestCheckPasswordMalformedHashFailsClosed(t *testing.T) {
	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$broken"} {
		if CheckPassword("anything", hash) {
			t.Fatalf("malformed hash %q verified", hash)
		}
	}
}
