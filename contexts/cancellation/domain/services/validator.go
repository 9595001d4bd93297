package services

import (
	"unicode/utf8"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/entities"
	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
)

// MaxReasonLength caps the free-text termination justification.
const MaxReasonLength = 500

// requiredField pairs the public payload key with its accessor so validation
// errors can name the field exactly as the caller sent it.
type requiredField struct {
	name  string
	value func(entities.Submission) string
}

var requiredFields = []requiredField{
	{"last name", func(s entities.Submission) string { return s.LastName }},
	{"first name", func(s entities.Submission) string { return s.FirstName }},
	{"street", func(s entities.Submission) string { return s.Street }},
	{"street number", func(s entities.Submission) string { return s.StreetNumber }},
	{"zipcode", func(s entities.Submission) string { return s.Zipcode }},
	{"city", func(s entities.Submission) string { return s.City }},
	{"email address", func(s entities.Submission) string { return s.EmailAddress }},
	{"customer ID", func(s entities.Submission) string { return s.CustomerID }},
	{"mobile phone number", func(s entities.Submission) string { return s.MobilePhoneNumber }},
}

// ValidateSubmission enforces required-field presence and business rules.
// It is a pure check; rate limiting is applied separately by the use case.
func ValidateSubmission(sub entities.Submission) error {
	if sub.IsEmpty() {
		return domainerrors.ErrNoData
	}

	for _, field := range requiredFields {
		// Relaxed clients identify the contract by SIM card number or
		// customer ID, so customer ID alone is not mandatory for them.
		if sub.RelaxedClient() && field.name == "customer ID" {
			continue
		}
		if field.value(sub) == "" {
			return domainerrors.MissingFieldError{Field: field.name}
		}
	}

	if sub.MailOnly() && sub.IBAN == "" {
		return domainerrors.MissingFieldError{Field: "iban"}
	}

	if utf8.RuneCountInString(sub.TerminationReason) > MaxReasonLength {
		return domainerrors.ErrReasonTooLong
	}

	if sub.RelaxedClient() && sub.CustomerID == "" && sub.SimCardNumber == "" {
		return domainerrors.ErrIdentifierRequired
	}

	return nil
}
