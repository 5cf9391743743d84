package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparator = regexp.MustCompile(`[\s_-]+`)
)

// GenerateSlug turns free text into a URL-safe slug.
func GenerateSlug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlugSuffix appends a base36 timestamp suffix for slug collisions.
func UniqueSlugSuffix(slug string) string {
	return slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// GenerateQRCode returns the opaque value encoded in a ticket's QR code.
func GenerateQRCode() string {
	return uuid.New().String()
}

// shareableAlphabet excludes ambiguous characters (I, O, 0, 1).
const shareableAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateShareableCode returns a random human-readable code of the given
// length for registration links.
func GenerateShareableCode(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(shareableAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is unrecoverable for code issuance
			panic(err)
		}
		b[i] = shareableAlphabet[n.Int64()]
	}
	return string(b)
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
