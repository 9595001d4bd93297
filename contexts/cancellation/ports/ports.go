package ports

import (
	"context"
	"time"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/entities"
)

// FloodStore keeps per-operation sliding-window event state. Implementations
// must not lose concurrent registrations for the same name.
type FloodStore interface {
	// CountEventsSince returns the number of events registered for name with
	// a timestamp strictly after since.
	CountEventsSince(ctx context.Context, name string, since time.Time) (int, error)
	RegisterEvent(ctx context.Context, name string, at time.Time) error
}

// Artifact is the metadata of one generated printable document. The id is
// opaque, globally unique and doubles as the externally shared reference.
type Artifact struct {
	ArtifactID string
	Filename   string
	MimeType   string
	ByteSize   int64
	CreatedAt  time.Time
}

// ArtifactStore owns durable storage of rendered documents.
type ArtifactStore interface {
	// PutArtifact persists data under a randomly generated opaque path
	// component and returns the stored artifact with a fresh unique id.
	PutArtifact(ctx context.Context, filename string, mimeType string, data []byte, now time.Time) (Artifact, error)
	GetArtifact(ctx context.Context, artifactID string) (Artifact, []byte, error)
	// DeleteArtifactsBefore removes artifacts created before cutoff and
	// returns how many were deleted.
	DeleteArtifactsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// DeliveryRecord binds a requester identity hash to an artifact at generation
// time. Rows are append-only and never updated.
type DeliveryRecord struct {
	IdentityHash string
	ArtifactID   string
	CreatedAt    time.Time
}

// DeliveryRecordStore persists and matches delivery records.
type DeliveryRecordStore interface {
	RecordDelivery(ctx context.Context, record DeliveryRecord) error
	// MostRecentDelivery returns the newest record matching both the identity
	// hash and the artifact id, if any.
	MostRecentDelivery(ctx context.Context, identityHash string, artifactID string) (DeliveryRecord, bool, error)
	DeleteDeliveriesBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// SenderIdentity is the resolved per-client mail sender.
type SenderIdentity struct {
	Address string
	Name    string
}

// Attachment is a mail attachment payload.
type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

// Message is one outbound notification.
type Message struct {
	To          string
	Subject     string
	Body        string
	Sender      SenderIdentity
	Attachments []Attachment
}

// Mailer abstracts the mail transport. Send failures are reported to the
// caller but never roll back already persisted state.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// DocumentRenderer produces the printable cancellation document.
type DocumentRenderer interface {
	Render(sub entities.Submission, brand string, now time.Time) ([]byte, error)
}

// Clock allows deterministic testing of window and timestamp rules.
type Clock interface {
	Now() time.Time
}
