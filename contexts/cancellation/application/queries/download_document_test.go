package queries

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

type fakeArtifacts struct {
	artifact ports.Artifact
	data     []byte
	err      error
}

func (f fakeArtifacts) PutArtifact(context.Context, string, string, []byte, time.Time) (ports.Artifact, error) {
	return ports.Artifact{}, nil
}

func (f fakeArtifacts) GetArtifact(_ context.Context, artifactID string) (ports.Artifact, []byte, error) {
	if f.err != nil {
		return ports.Artifact{}, nil, f.err
	}
	if artifactID != f.artifact.ArtifactID {
		return ports.Artifact{}, nil, domainerrors.ErrArtifactNotFound
	}
	return f.artifact, f.data, nil
}

func (f fakeArtifacts) DeleteArtifactsBefore(context.Context, time.Time) (int, error) {
	return 0, nil
}

type fakeDeliveries struct {
	record ports.DeliveryRecord
	found  bool
}

func (f fakeDeliveries) RecordDelivery(context.Context, ports.DeliveryRecord) error { return nil }

func (f fakeDeliveries) MostRecentDelivery(_ context.Context, identityHash, artifactID string) (ports.DeliveryRecord, bool, error) {
	if !f.found || identityHash != f.record.IdentityHash || artifactID != f.record.ArtifactID {
		return ports.DeliveryRecord{}, false, nil
	}
	return f.record, true, nil
}

func (f fakeDeliveries) DeleteDeliveriesBefore(context.Context, time.Time) (int, error) {
	return 0, nil
}

func downloadFixture() DownloadDocumentUseCase {
	return DownloadDocumentUseCase{
		Artifacts: fakeArtifacts{
			artifact: ports.Artifact{
				ArtifactID: "artifact-1",
				Filename:   "Kündigung_+49 170 1234567.pdf",
				MimeType:   "application/pdf",
			},
			data: []byte("%PDF-fake"),
		},
		Deliveries: fakeDeliveries{
			record: ports.DeliveryRecord{IdentityHash: "hash-abc", ArtifactID: "artifact-1"},
			found:  true,
		},
	}
}

func TestDownloadMatchingIdentity(t *testing.T) {
	result, err := downloadFixture().Execute(context.Background(), DownloadDocumentQuery{
		ArtifactID:   "artifact-1",
		IdentityHash: "hash-abc",
	})
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if !bytes.Equal(result.Data, []byte("%PDF-fake")) {
		t.Fatal("unexpected payload")
	}
	// Served under the fixed public name, not the storage name.
	if result.Filename != AttachmentFilename {
		t.Fatalf("filename %q, want %q", result.Filename, AttachmentFilename)
	}
	if result.MimeType != "application/pdf" {
		t.Fatalf("unexpected mime type %q", result.MimeType)
	}
}

func TestDownloadDeniedForForeignIdentity(t *testing.T) {
	_, err := downloadFixture().Execute(context.Background(), DownloadDocumentQuery{
		ArtifactID:   "artifact-1",
		IdentityHash: "hash-other",
	})
	if !errors.Is(err, domainerrors.ErrDownloadDenied) {
		t.Fatalf("expected download denied, got %v", err)
	}
}

func TestDownloadUnknownArtifact(t *testing.T) {
	_, err := downloadFixture().Execute(context.Background(), DownloadDocumentQuery{
		ArtifactID:   "artifact-999",
		IdentityHash: "hash-abc",
	})
	if !errors.Is(err, domainerrors.ErrArtifactNotFound) {
		t.Fatalf("expected artifact not found, got %v", err)
	}
}
