package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/fs"
	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

var (
	_ ports.FloodStore          = (*Repository)(nil)
	_ ports.ArtifactStore       = (*Repository)(nil)
	_ ports.DeliveryRecordStore = (*Repository)(nil)
)

// Repository implements the cancellation persistence ports on Postgres.
// Artifact metadata lives in the database, payload bytes on the filesystem.
type Repository struct {
	db     *gorm.DB
	files  fs.FileStore
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, artifactDir string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		files:  fs.FileStore{Root: artifactDir},
		logger: logger,
	}
}

// Migrate creates or updates the schema for the cancellation tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&floodEventModel{}, &artifactModel{}, &deliveryRecordModel{})
}

func (r *Repository) CountEventsSince(ctx context.Context, name string, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&floodEventModel{}).
		Where("event_name = ? AND created_at > ?", name, since.UTC()).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) RegisterEvent(ctx context.Context, name string, at time.Time) error {
	row := floodEventModel{
		EventID:   uuid.NewString(),
		EventName: name,
		CreatedAt: at.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) PutArtifact(ctx context.Context, filename string, mimeType string, data []byte, now time.Time) (ports.Artifact, error) {
	relPath, err := r.files.Write(filename, data)
	if err != nil {
		return ports.Artifact{}, err
	}
	row := artifactModel{
		ArtifactID: uuid.NewString(),
		Filename:   filename,
		MimeType:   mimeType,
		ByteSize:   int64(len(data)),
		FilePath:   relPath,
		CreatedAt:  now.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		_ = r.files.Remove(relPath)
		return ports.Artifact{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) GetArtifact(ctx context.Context, artifactID string) (ports.Artifact, []byte, error) {
	var row artifactModel
	err := r.db.WithContext(ctx).
		Where("artifact_id = ?", artifactID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Artifact{}, nil, domainerrors.ErrArtifactNotFound
		}
		return ports.Artifact{}, nil, err
	}
	data, err := r.files.Read(row.FilePath)
	if err != nil {
		return ports.Artifact{}, nil, err
	}
	return row.toPort(), data, nil
}

func (r *Repository) DeleteArtifactsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	var rows []artifactModel
	err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff.UTC()).
		Find(&rows).
		Error
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, row := range rows {
		err := r.db.WithContext(ctx).
			Where("artifact_id = ?", row.ArtifactID).
			Delete(&artifactModel{}).
			Error
		if err != nil {
			return deleted, err
		}
		if err := r.files.Remove(row.FilePath); err != nil {
			r.logger.Warn("artifact file removal failed",
				"event", "cancellation_artifact_file_remove_failed",
				"module", "cancellation",
				"layer", "adapter",
				"artifact_id", row.ArtifactID,
				"error", err.Error(),
			)
		}
		deleted++
	}
	return deleted, nil
}

func (r *Repository) RecordDelivery(ctx context.Context, record ports.DeliveryRecord) error {
	row := deliveryRecordModel{
		RecordID:     uuid.NewString(),
		IdentityHash: record.IdentityHash,
		ArtifactID:   record.ArtifactID,
		CreatedAt:    record.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) MostRecentDelivery(ctx context.Context, identityHash string, artifactID string) (ports.DeliveryRecord, bool, error) {
	var row deliveryRecordModel
	err := r.db.WithContext(ctx).
		Where("identity_hash = ? AND artifact_id = ?", identityHash, artifactID).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DeliveryRecord{}, false, nil
		}
		return ports.DeliveryRecord{}, false, err
	}
	return ports.DeliveryRecord{
		IdentityHash: row.IdentityHash,
		ArtifactID:   row.ArtifactID,
		CreatedAt:    row.CreatedAt.UTC(),
	}, true, nil
}

func (r *Repository) DeleteDeliveriesBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff.UTC()).
		Delete(&deliveryRecordModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

type floodEventModel struct {
	EventID   string    `gorm:"column:event_id;primaryKey"`
	EventName string    `gorm:"column:event_name;index:idx_flood_events_window"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_flood_events_window"`
}

func (floodEventModel) TableName() string {
	return "flood_events"
}

type artifactModel struct {
	ArtifactID string    `gorm:"column:artifact_id;primaryKey"`
	Filename   string    `gorm:"column:filename"`
	MimeType   string    `gorm:"column:mime_type"`
	ByteSize   int64     `gorm:"column:byte_size"`
	FilePath   string    `gorm:"column:file_path"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (artifactModel) TableName() string {
	return "artifacts"
}

func (m artifactModel) toPort() ports.Artifact {
	return ports.Artifact{
		ArtifactID: m.ArtifactID,
		Filename:   m.Filename,
		MimeType:   m.MimeType,
		ByteSize:   m.ByteSize,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type deliveryRecordModel struct {
	RecordID     string    `gorm:"column:record_id;primaryKey"`
	IdentityHash string    `gorm:"column:identity_hash;index:idx_delivery_records_match"`
	ArtifactID   string    `gorm:"column:artifact_id;index:idx_delivery_records_match"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (deliveryRecordModel) TableName() string {
	return "delivery_records"
}
