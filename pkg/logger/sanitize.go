package logger

import (
	"strings"
)

// SanitizedLogin masks a login identifier for logging: keeps the first
// character, masks the rest ("b**"). Email-shaped logins also keep the
// domain TLD.
func SanitizedLogin(login string) string {
	parts := strings.Split(login, "@")
	if len(parts) == 2 {
		return maskWord(parts[0]) + "@" + maskDomain(parts[1])
	}
	return maskWord(login)
}

func maskWord(word string) string {
	if len(word) <= 1 {
		return word
	}
	return string(word[0]) + strings.Repeat("*", len(word)-1)
}

func maskDomain(domain string) string {
	domainParts := strings.Split(domain, ".")
	if len(domainParts) > 1 {
		for i := 0; i < len(domainParts)-1; i++ {
			domainParts[i] = strings.Repeat("*", len(domainParts[i]))
		}
		return strings.Join(domainParts, ".")
	}
	return maskWord(domain)
}

// SanitizeQueryString reports whether a query string contains sensitive
// parameters and should be redacted wholesale from request logs.
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"password",
		"token",
		"secret",
		"login",
		"email",
		"auth",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
