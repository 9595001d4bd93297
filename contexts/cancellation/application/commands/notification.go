package commands

import (
	"fmt"
	"strings"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/entities"
)

// internalBody composes the field summary sent with the internal copy.
// Lines appear in a fixed order so the mails are diffable.
func internalBody(sub entities.Submission) string {
	var b strings.Builder

	address := joinNonEmpty(" ", sub.Street, sub.StreetNumber, sub.Zipcode, sub.City)
	if address != "" {
		fmt.Fprintf(&b, "<p>Adresse: %s</p>\n", address)
	}

	lines := []struct {
		label string
		value string
	}{
		{"Vorname", sub.FirstName},
		{"Nachname", sub.LastName},
		{"Marke", sub.Client},
		{"Kundennummer", sub.CustomerID},
		{"SIM-Kartennummer", sub.SimCardNumber},
		{"Mobilnummer", sub.MobilePhoneNumber},
	}
	for _, line := range lines {
		if line.value == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s: %s</p>\n", line.label, line.value)
	}
	return b.String()
}

// shareCustomerBody is the confirmation text of the mail-only flow.
func shareCustomerBody(sub entities.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Sehr geehrte/r %s %s,</p>\n", sub.FirstName, sub.LastName)
	b.WriteString("<p>Ihre Kündigung ist bei uns eingegangen und wird an das Service-Center weitergeleitet.</p>\n")
	fmt.Fprintf(&b, "<p>Kundennummer: %s</p>\n", sub.CustomerID)
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}
