package domain

import (
	"fmt"
	"strings"
	"time"
)

// PhoneNumber is the consent registry entry for one E.164 number. Rows are
// created lazily on first reference and never deleted by this engine; the
// unsubscribed flag is the only mutable state.
type PhoneNumber struct {
	Number       string    `json:"number"`
	Unsubscribed bool      `json:"unsubscribed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizePhoneNumber reduces a phone number handle to its canonical E.164
// form: separators stripped, a single leading "+", digits only after it.
func NormalizePhoneNumber(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(cleaned)
	if cleaned == "" {
		return "", fmt.Errorf("empty phone number")
	}
	cleaned = strings.TrimPrefix(cleaned, "+")
	if cleaned == "" {
		return "", fmt.Errorf("phone number %q has no digits", raw)
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("phone number %q contains non-digit %q", raw, r)
		}
	}
	if len(cleaned) > 15 {
		return "", fmt.Errorf("phone number %q exceeds E.164 length", raw)
	}
	return "+" + cleaned, nil
}
