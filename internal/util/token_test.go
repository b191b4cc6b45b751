package util

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestGenerateResetToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		token, err := GenerateResetToken()
		if err != nil {
			t.Fatalf("GenerateResetToken returned error: %v", err)
		}
		raw, err := base64.RawURLEncoding.DecodeString(token)
		if err != nil {
			t.Fatalf("token %q is not base64url: %v", token, err)
		}
		if len(raw) != ResetTokenBytes {
			t.Fatalf("expected %d bytes of entropy, got %d", ResetTokenBytes, len(raw))
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = struct{}{}
	}
}

func TestHashTokenIsExactMatch(t *testing.T) {
	a := HashToken("abc")
	if !bytes.Equal(a, HashToken("abc")) {
		t.Fatalf("expected stable digest")
	}
	if bytes.Equal(a, HashToken("ABC")) || bytes.Equal(a, HashToken("abc ")) {
		t.Fatalf("expected case and whitespace to change the digest")
	}
	if len(a) != 32 {
		t.Fatalf("expected sha256 digest, got %d bytes", len(a))
	}
}
