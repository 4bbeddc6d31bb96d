package session

import (
	"strings"
	"unicode"
)

// Message keys for the validation catalog. Deployments override the
// defaults through a Catalog, typically fed from a localization layer.
const (
	KeyLoginBlank         = "login_blank"
	KeyPasswordBlank      = "password_blank"
	KeyLoginNotFound      = "login_not_found"
	KeyPasswordInvalid    = "password_invalid"
	KeyGeneralCredentials = "general_credentials_error"
)

var defaultMessages = map[string]string{
	KeyLoginBlank:      "cannot be blank",
	KeyPasswordBlank:   "cannot be blank",
	KeyLoginNotFound:   "is not valid",
	KeyPasswordInvalid: "is not valid",
}

// Catalog resolves message keys to user-facing text. A nil Catalog is
// valid and yields the defaults.
type Catalog struct {
	overrides map[string]string
}

// NewCatalog builds a catalog with the given overrides. Keys not
// present in overrides fall back to the package defaults.
func NewCatalog(overrides map[string]string) *Catalog {
	copied := make(map[string]string, len(overrides))
	for k, v := range overrides {
		copied[k] = v
	}
	return &Catalog{overrides: copied}
}

// Message returns the text for key: the override if set, otherwise the
// default. Keys without a static default (general_credentials_error is
// computed from the login field) return "".
func (c *Catalog) Message(key string) string {
	if c != nil {
		if msg, ok := c.overrides[key]; ok {
			return msg
		}
	}
	return defaultMessages[key]
}

// humanize turns a field name like "member_login" into "Member login"
// for the computed general credentials message.
func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
