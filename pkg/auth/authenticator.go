package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// Authenticator decides whether a request carries a valid admin credential.
type Authenticator interface {
	// Authenticate returns the authenticated subject or ErrUnauthorized.
	Authenticate(r *http.Request) (string, error)
}

// Credentials are the configured admin secrets. Either Token or
// Username and Password (or both) must be set.
type Credentials struct {
	Token    string
	Username string
	Password string
}

// TokenSubject is the subject reported for requests using the static token.
const TokenSubject = "admin"

// StaticAuthenticator compares request credentials against configured
// shared secrets and verifies signed session tokens.
//
// Accepted Authorization headers:
//
//	Bearer <token>
//	Bearer base64(username:password)
//	Basic base64(username:password)
//	Bearer <session token>
type StaticAuthenticator struct {
	creds         Credentials
	sessionSecret []byte
	sessionTTL    time.Duration
	now           func() time.Time
}

// NewStaticAuthenticator creates a StaticAuthenticator.
func NewStaticAuthenticator(creds Credentials, sessionSecret []byte, sessionTTL time.Duration) *StaticAuthenticator {
	return &StaticAuthenticator{
		creds:         creds,
		sessionSecret: sessionSecret,
		sessionTTL:    sessionTTL,
		now:           time.Now,
	}
}

var _ Authenticator = (*StaticAuthenticator)(nil)

func (a *StaticAuthenticator) Authenticate(r *http.Request) (string, error) {
	scheme, value, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || value == "" {
		return "", ErrUnauthorized
	}
	value = strings.TrimSpace(value)

	switch strings.ToLower(scheme) {
	case "bearer":
		if a.creds.Token != "" && secureEqual(value, a.creds.Token) {
			return TokenSubject, nil
		}
		if a.hasPassword() && secureEqual(value, basicValue(a.creds.Username, a.creds.Password)) {
			return a.creds.Username, nil
		}
		if subject, err := VerifySessionToken(value, a.sessionSecret, a.sessionTTL, a.now()); err == nil {
			return subject, nil
		}
	case "basic":
		if a.hasPassword() && secureEqual(value, basicValue(a.creds.Username, a.creds.Password)) {
			return a.creds.Username, nil
		}
	}
	return "", ErrUnauthorized
}

// CheckPassword reports whether username and password match the configured pair.
func (a *StaticAuthenticator) CheckPassword(username, password string) bool {
	if !a.hasPassword() {
		return false
	}
	userOK := secureEqual(username, a.creds.Username)
	passOK := secureEqual(password, a.creds.Password)
	return userOK && passOK
}

// IssueSession returns a signed session token for subject and its expiry.
func (a *StaticAuthenticator) IssueSession(subject string) (string, time.Time) {
	now := a.now()
	return CreateSessionToken(subject, now, a.sessionSecret), now.Add(a.sessionTTL).Truncate(time.Second)
}

func (a *StaticAuthenticator) hasPassword() bool {
	return a.creds.Username != "" && a.creds.Password != ""
}

func basicValue(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
