package queries

import (
	"context"
	"log/slog"

	application "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application"
	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

// AttachmentFilename is the fixed name the document is served under,
// independent of the internal storage name.
const AttachmentFilename = "Kündigung.pdf"

type DownloadDocumentQuery struct {
	ArtifactID   string
	IdentityHash string
}

type DownloadDocumentResult struct {
	Filename string
	MimeType string
	Data     []byte
}

// DownloadDocumentUseCase gates re-downloads: the artifact is served only to
// a requester whose identity hash was recorded at generation time. The hash
// is derived from the network address, so shared NAT or proxy addresses
// collide. It is an access gate, not authentication.
type DownloadDocumentUseCase struct {
	Artifacts  ports.ArtifactStore
	Deliveries ports.DeliveryRecordStore
	Logger     *slog.Logger
}

func (u DownloadDocumentUseCase) Execute(ctx context.Context, query DownloadDocumentQuery) (DownloadDocumentResult, error) {
	logger := application.ResolveLogger(u.Logger)

	artifact, data, err := u.Artifacts.GetArtifact(ctx, query.ArtifactID)
	if err != nil {
		return DownloadDocumentResult{}, err
	}

	_, found, err := u.Deliveries.MostRecentDelivery(ctx, query.IdentityHash, query.ArtifactID)
	if err != nil {
		return DownloadDocumentResult{}, err
	}
	if !found {
		// Logged for auditing; the caller only sees a denial without any
		// confirmation that the artifact exists.
		logger.Warn("document download denied",
			"event", "cancellation_download_denied",
			"module", "cancellation",
			"layer", "application",
			"artifact_id", query.ArtifactID,
		)
		return DownloadDocumentResult{}, domainerrors.ErrDownloadDenied
	}

	return DownloadDocumentResult{
		Filename: AttachmentFilename,
		MimeType: artifact.MimeType,
		Data:     data,
	}, nil
}
