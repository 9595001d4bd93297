package httptransport

import "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/entities"

// SubmissionRequest mirrors the public form payload. The key names carry
// spaces for compatibility with existing integrations.
type SubmissionRequest struct {
	Client                      string `json:"client"`
	LastName                    string `json:"last name"`
	FirstName                   string `json:"first name"`
	Street                      string `json:"street"`
	StreetNumber                string `json:"street number"`
	Zipcode                     string `json:"zipcode"`
	City                        string `json:"city"`
	EmailAddress                string `json:"email address"`
	CustomerID                  string `json:"customer ID"`
	MobilePhoneNumber           string `json:"mobile phone number"`
	SimCardNumber               string `json:"sim card number"`
	IBAN                        string `json:"iban"`
	DateOfTermination           string `json:"date of termination"`
	TerminateOnNextPossibleDate bool   `json:"terminate on next possible date"`
	OrdinaryTermination         bool   `json:"ordinary termination"`
	ExtraordinaryTermination    bool   `json:"extraordinary termination"`
	TerminationReason           string `json:"reason for extraordinary termination"`
}

func (r SubmissionRequest) ToEntity() entities.Submission {
	return entities.Submission{
		Client:                      r.Client,
		LastName:                    r.LastName,
		FirstName:                   r.FirstName,
		Street:                      r.Street,
		StreetNumber:                r.StreetNumber,
		Zipcode:                     r.Zipcode,
		City:                        r.City,
		EmailAddress:                r.EmailAddress,
		CustomerID:                  r.CustomerID,
		MobilePhoneNumber:           r.MobilePhoneNumber,
		SimCardNumber:               r.SimCardNumber,
		IBAN:                        r.IBAN,
		DateOfTermination:           r.DateOfTermination,
		TerminateOnNextPossibleDate: r.TerminateOnNextPossibleDate,
		OrdinaryTermination:         r.OrdinaryTermination,
		ExtraordinaryTermination:    r.ExtraordinaryTermination,
		TerminationReason:           r.TerminationReason,
	}
}

// SubmissionResponse is returned after a successful submission. URL is empty
// for mail-only clients.
type SubmissionResponse struct {
	URL    string `json:"url,omitempty"`
	Result string `json:"result"`
}

// DownloadRequest identifies one stored document download.
type DownloadRequest struct {
	ArtifactID   string `json:"-"`
	IdentityHash string `json:"-"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
