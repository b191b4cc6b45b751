package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// ResetTokenBytes gives reset tokens 256 bits of entropy.
const ResetTokenBytes = 32

// RandomToken returns n random bytes encoded as unpadded base64url, safe to
// embed in a query string.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func GenerateResetToken() (string, error) {
	return RandomToken(ResetTokenBytes)
}

// HashToken is the digest stored in place of a bearer secret.
func HashToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
