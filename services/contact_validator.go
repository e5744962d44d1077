package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ReviveTech/revive-backend/types"
)

const (
	minMessageLength = 10
	maxMessageLength = 2000

	// Messages stuffing this many raw links are overwhelmingly spam.
	maxMessageLinks = 3
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateSubmission normalizes the submission in place and returns all field
// errors at once, keyed by form field name. An empty map means the submission
// is valid. It never short-circuits: the visitor should see every problem in
// one round trip.
func ValidateSubmission(s *types.Submission) map[string][]string {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.PhoneNumber = strings.TrimSpace(s.PhoneNumber)
	s.Message = strings.TrimSpace(s.Message)

	fieldErrors := make(map[string][]string)
	addError := func(field, msg string) {
		fieldErrors[field] = append(fieldErrors[field], msg)
	}

	if s.Name == "" {
		addError("name", "Please tell us your name.")
	}

	switch len(s.Message) {
	case 0:
		addError("message", "Please include a message.")
	default:
		if len(s.Message) < minMessageLength {
			addError("message", fmt.Sprintf("Your message must be at least %d characters.", minMessageLength))
		}
		if len(s.Message) > maxMessageLength {
			addError("message", fmt.Sprintf("Your message must be at most %d characters.", maxMessageLength))
		}
	}

	if countLinks(s.Message) >= maxMessageLinks {
		addError("message", "Your message contains too many links.")
	}

	if s.ServiceType == "" {
		addError("service_type", "Please choose the service you need.")
	}

	if !s.PrivacyConsent {
		addError("privacy_consent", "Please accept the privacy policy so we can respond to you.")
	}

	if s.Email != "" && !emailRegex.MatchString(s.Email) {
		addError("email", "Please enter a valid email address.")
	}

	switch strings.ToLower(strings.TrimSpace(s.ContactMethod)) {
	case string(types.ContactMethodEmail):
		if s.Email == "" {
			addError("email", "An email address is required for email replies.")
		}
	case string(types.ContactMethodPhone), string(types.ContactMethodText):
		if s.PhoneNumber == "" {
			addError("phone", "A phone number is required for phone or text replies.")
		}
	case string(types.ContactMethodAny):
		if s.Email == "" {
			addError("email", "An email address is required.")
		}
		if s.PhoneNumber == "" {
			addError("phone", "A phone number is required.")
		}
	default:
		addError("contact_method", "Please choose how you would like to be contacted.")
	}

	return fieldErrors
}

// countLinks counts raw http/https URLs in the message, case-insensitively.
func countLinks(message string) int {
	lower := strings.ToLower(message)
	return strings.Count(lower, "http://") + strings.Count(lower, "https://")
}
