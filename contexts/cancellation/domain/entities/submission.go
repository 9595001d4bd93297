package entities

// Client identifiers carried in the submission payload. Anything else
// (including the empty string) selects the default brand configuration.
const (
	ClientNorma    = "norma"
	ClientKaufland = "kaufland"
	ClientShare    = "share"
)

// Submission is one inbound contract cancellation request. Field names mirror
// the public API payload keys; the struct is treated as immutable once decoded.
type Submission struct {
	Client                      string
	LastName                    string
	FirstName                   string
	Street                      string
	StreetNumber                string
	Zipcode                     string
	City                        string
	EmailAddress                string
	CustomerID                  string
	MobilePhoneNumber           string
	SimCardNumber               string
	IBAN                        string
	DateOfTermination           string
	TerminateOnNextPossibleDate bool
	OrdinaryTermination         bool
	ExtraordinaryTermination    bool
	TerminationReason           string
}

// RelaxedClient reports whether the submission belongs to the client subset
// that may identify the contract by SIM card number instead of customer ID.
func (s Submission) RelaxedClient() bool {
	return s.Client == ClientNorma || s.Client == ClientKaufland
}

// MailOnly reports whether the submission is handled by the mail-only flow
// without generating a printable document.
func (s Submission) MailOnly() bool {
	return s.Client == ClientShare
}

// IsEmpty reports whether no payload fields were supplied at all.
func (s Submission) IsEmpty() bool {
	return s == Submission{}
}
