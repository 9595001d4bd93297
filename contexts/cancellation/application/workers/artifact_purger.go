package workers

import (
	"context"
	"log/slog"
	"time"

	application "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

// ArtifactPurger sweeps generated documents past the retention period,
// together with their delivery records.
type ArtifactPurger struct {
	Artifacts  ports.ArtifactStore
	Deliveries ports.DeliveryRecordStore
	Clock      ports.Clock
	Retention  time.Duration
	Logger     *slog.Logger
}

func (p ArtifactPurger) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(p.Logger)
	now := time.Now().UTC()
	if p.Clock != nil {
		now = p.Clock.Now().UTC()
	}
	retention := p.Retention
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	cutoff := now.Add(-retention)

	purged, err := p.Artifacts.DeleteArtifactsBefore(ctx, cutoff)
	if err != nil {
		logger.Error("artifact retention sweep failed",
			"event", "cancellation_artifact_purge_failed",
			"module", "cancellation",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	records, err := p.Deliveries.DeleteDeliveriesBefore(ctx, cutoff)
	if err != nil {
		logger.Error("delivery record retention sweep failed",
			"event", "cancellation_delivery_purge_failed",
			"module", "cancellation",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if purged > 0 || records > 0 {
		logger.Info("retention sweep completed",
			"event", "cancellation_retention_sweep_completed",
			"module", "cancellation",
			"layer", "worker",
			"purged_artifacts", purged,
			"purged_records", records,
		)
	}
	return nil
}
