package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

// Store is an in-memory adapter implementing the cancellation ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu         sync.RWMutex
	events     map[string][]time.Time
	artifacts  map[string]storedArtifact
	deliveries []ports.DeliveryRecord
}

type storedArtifact struct {
	meta ports.Artifact
	data []byte
}

func NewStore() *Store {
	return &Store{
		events:    make(map[string][]time.Time),
		artifacts: make(map[string]storedArtifact),
	}
}

func (s *Store) CountEventsSince(_ context.Context, name string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, at := range s.events[name] {
		if at.After(since) {
			count++
		}
	}
	return count, nil
}

func (s *Store) RegisterEvent(_ context.Context, name string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[name] = append(s.events[name], at)
	return nil
}

func (s *Store) PutArtifact(_ context.Context, filename string, mimeType string, data []byte, now time.Time) (ports.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := ports.Artifact{
		ArtifactID: uuid.NewString(),
		Filename:   filename,
		MimeType:   mimeType,
		ByteSize:   int64(len(data)),
		CreatedAt:  now.UTC(),
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	s.artifacts[meta.ArtifactID] = storedArtifact{meta: meta, data: copied}
	return meta, nil
}

func (s *Store) GetArtifact(_ context.Context, artifactID string) (ports.Artifact, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.artifacts[artifactID]
	if !ok {
		return ports.Artifact{}, nil, domainerrors.ErrArtifactNotFound
	}
	data := make([]byte, len(stored.data))
	copy(data, stored.data)
	return stored.meta, data, nil
}

func (s *Store) DeleteArtifactsBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, stored := range s.artifacts {
		if stored.meta.CreatedAt.Before(cutoff) {
			delete(s.artifacts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) RecordDelivery(_ context.Context, record ports.DeliveryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.CreatedAt = record.CreatedAt.UTC()
	s.deliveries = append(s.deliveries, record)
	return nil
}

func (s *Store) MostRecentDelivery(_ context.Context, identityHash string, artifactID string) (ports.DeliveryRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.deliveries) - 1; i >= 0; i-- {
		record := s.deliveries[i]
		if record.IdentityHash == identityHash && record.ArtifactID == artifactID {
			return record, true, nil
		}
	}
	return ports.DeliveryRecord{}, false, nil
}

func (s *Store) DeleteDeliveriesBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.deliveries[:0]
	deleted := 0
	for _, record := range s.deliveries {
		if record.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	s.deliveries = kept
	return deleted, nil
}
