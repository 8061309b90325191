package validate

import (
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// E.164-ish phone: optional plus, no leading zero, up to 15 digits.
var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "is required",
		},
	}
}

// ValidEmail validates that a string is a valid email address using RFC 5322
// parsing plus additional checks for typical web use.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isEmail(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

// OptionalEmail is ValidEmail for optional fields: empty passes, anything
// else must be a valid address.
func OptionalEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) == "" || isEmail(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

func isEmail(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}

	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 {
		return false
	}

	localPart := parts[0]
	domain := parts[1]

	if localPart == "" {
		return false
	}

	// Domain must contain at least one dot and cannot start/end with dot.
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}

	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}

	return true
}

// ValidPhone validates that a string is an E.164-compatible phone number.
// Common separators are stripped before matching.
func ValidPhone(field, value string) Rule {
	return Rule{
		Check: func() bool {
			cleaned := cleanPhone(value)
			return phoneRegex.MatchString(cleaned)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid phone number in international format",
		},
	}
}

// ValidLocale validates that a string is a well-formed BCP 47 language tag.
func ValidLocale(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			_, err := language.Parse(value)
			return err == nil
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid locale tag",
		},
	}
}

func cleanPhone(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(value))
}
