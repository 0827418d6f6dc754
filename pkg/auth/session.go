package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	errTokenFormat    = errors.New("invalid token format")
	errTokenSignature = errors.New("invalid signature")
	errTokenExpired   = errors.New("token expired")
)

// CreateSessionToken returns a signed token for subject issued at issuedAt.
// Format: base64url(subject "|" unix seconds) "." hex(HMAC-SHA256).
func CreateSessionToken(subject string, issuedAt time.Time, secret []byte) string {
	payload := []byte(subject + "|" + strconv.FormatInt(issuedAt.Unix(), 10))
	return base64.URLEncoding.EncodeToString(payload) + "." + sign(payload, secret)
}

// VerifySessionToken checks the signature and age of token and returns its subject.
// A token is valid from its issue time until issue time plus ttl.
func VerifySessionToken(token string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return "", errTokenFormat
	}
	payload, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errTokenFormat
	}
	if !hmac.Equal([]byte(sign(payload, secret)), []byte(sig)) {
		return "", errTokenSignature
	}

	i := strings.LastIndexByte(string(payload), '|')
	if i < 0 {
		return "", errTokenFormat
	}
	subject := string(payload[:i])
	unix, err := strconv.ParseInt(string(payload[i+1:]), 10, 64)
	if err != nil {
		return "", errTokenFormat
	}
	issuedAt := time.Unix(unix, 0)
	if now.Before(issuedAt.Add(-time.Minute)) || now.After(issuedAt.Add(ttl)) {
		return "", errTokenExpired
	}
	return subject, nil
}

func sign(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

const minSecretLen = 32

// SessionSecretBytes returns the signing key for s, zero-padded to at least 32 bytes.
func SessionSecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}
