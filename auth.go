package hws

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashPassword returns the lowercase hex SHA-256 digest of password, the
// form SiteConfig.PasswordHash expects.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword compares the digest of password with the configured digest
// in constant time.
func CheckPassword(digest, password string) bool {
	want := strings.ToLower(strings.TrimSpace(digest))
	if want == "" {
		return false
	}
	got := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func validateDigest(digest string) error {
	b, err := hex.DecodeString(strings.TrimSpace(digest))
	if err != nil || len(b) != sha256.Size {
		return fmt.Errorf("hws: password_hash must be a hex SHA-256 digest")
	}
	return nil
}
