package service

import (
	"regexp"
	"strings"

	"github.com/portfolio/backend/internal/model"
)

// notSpace excludes ASCII whitespace, vertical tab, Unicode separators and the BOM.
const notSpace = `[^\s\v\p{Z}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + notSpace + `+@` + notSpace + `+\.` + notSpace + `+$`)

// ValidEmail reports whether s has the shape local@domain.tld with no whitespace.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateMessage checks that all submission fields are present and the email is well formed.
// Whitespace-only values count as missing.
func ValidateMessage(msg *model.Message) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", msg.Name},
		{"email", msg.Email},
		{"subject", msg.Subject},
		{"message", msg.Message},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Rule: RuleMissingField, Fields: missing}
	}
	if !ValidEmail(msg.Email) {
		return &ValidationError{Rule: RuleInvalidEmail, Fields: []string{"email"}}
	}
	return nil
}
