package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// inviteAlphabet omits characters that are easy to misread (0/O, 1/I).
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode returns a code like "ARAL-7KQX". Uniqueness is enforced
// by the DB; callers retry on collision.
func GenerateInviteCode(prefix string) string {
	if prefix == "" {
		prefix = "ARAL"
	}
	b := make([]byte, 4)
	for i := range b {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(inviteAlphabet))))
		b[i] = inviteAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", prefix, string(b))
}

// GenerateOtp returns a 6-digit numeric code.
func GenerateOtp() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(900000))
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// GenerateRandomString returns n characters from the invite alphabet, used
// for upload filename suffixes.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(inviteAlphabet))))
		b[i] = inviteAlphabet[idx.Int64()]
	}
	return string(b)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(text string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(slug, "-")
}
