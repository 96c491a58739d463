package validation

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FormatValidator is a function that validates a string against a format
type FormatValidator func(value string) bool

var (
	formatsMu sync.RWMutex

	// formatValidators maps lowercase format names to their validation functions
	formatValidators = map[string]FormatValidator{
		"email":     validateEmail,
		"uuid":      validateUUID,
		"date":      layoutValidator(time.DateOnly),
		"time":      layoutValidator("15:04:05Z07:00"),
		"datetime":  layoutValidator(time.RFC3339),
		"date-time": layoutValidator(time.RFC3339),
		"uri":       validateURI,
		"url":       validateURI,
		"ipv4":      func(v string) bool { ip := net.ParseIP(v); return ip != nil && ip.To4() != nil },
		"ipv6":      func(v string) bool { ip := net.ParseIP(v); return ip != nil && ip.To4() == nil },
		"hostname":  validateHostname,
	}
)

// ValidateFormat checks if a value matches the specified format.
// Unknown formats pass.
func ValidateFormat(format, value string) bool {
	formatsMu.RLock()
	validator, ok := formatValidators[strings.ToLower(format)]
	formatsMu.RUnlock()
	if !ok {
		return true
	}
	return validator(value)
}

// RegisterFormat allows registering custom format validators
func RegisterFormat(name string, validator FormatValidator) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	formatValidators[strings.ToLower(name)] = validator
}

func validateEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	return strings.Contains(value[at+1:], ".")
}

func validateUUID(value string) bool {
	// uuid.Parse also accepts urn and braced forms; only the canonical form is valid here
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

func layoutValidator(layout string) FormatValidator {
	return func(value string) bool {
		_, err := time.Parse(layout, value)
		return err == nil
	}
}

func validateURI(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// RFC 1123
var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func validateHostname(value string) bool {
	return len(value) <= 253 && hostnamePattern.MatchString(value)
}
