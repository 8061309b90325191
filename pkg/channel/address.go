package channel

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// Address derives the channel-level recipient address from recipient fields.
// Email channels require a well-formed email, phone-based channels an E.164
// number, and application channels the user identifier.
func (c Channel) Address(email, phone, userID string) (string, error) {
	switch c {
	case Email:
		addr, err := mail.ParseAddress(strings.TrimSpace(email))
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
		}
		if !strings.Contains(strings.SplitN(addr.Address, "@", 2)[1], ".") {
			return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
		}
		return addr.Address, nil
	case SMS, WhatsApp:
		return NormalizePhone(phone)
	case InApp, Push:
		if strings.TrimSpace(userID) == "" {
			return "", ErrMissingUserID
		}
		return userID, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, c)
	}
}

// NormalizePhone converts a phone number into E.164 form. Common separators
// are stripped and a missing leading plus is added before validation.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if cleaned == "" {
		return "", fmt.Errorf("%w: empty number", ErrInvalidPhone)
	}
	if !strings.HasPrefix(cleaned, "+") {
		cleaned = "+" + cleaned
	}
	if !e164Regex.MatchString(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return cleaned, nil
}
