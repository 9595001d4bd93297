package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/fs"
	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

var (
	_ ports.FloodStore          = (*Repository)(nil)
	_ ports.ArtifactStore       = (*Repository)(nil)
	_ ports.DeliveryRecordStore = (*Repository)(nil)
)

// Repository implements the cancellation persistence ports on SQLite.
// Artifact metadata lives in the database, payload bytes on the filesystem.
type Repository struct {
	db    *sql.DB
	files fs.FileStore
}

// New wires a SQLite database and an artifact directory, initialising the
// schema on first use.
func New(db *sql.DB, artifactDir string) (*Repository, error) {
	r := &Repository{db: db, files: fs.FileStore{Root: artifactDir}}
	if err := r.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

const currentSchemaVersion = 1

func (r *Repository) migrate() error {
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := r.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := r.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	migrations := []func() error{
		r.migrateV1,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := r.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Repository) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS flood_events (
		id         TEXT PRIMARY KEY,
		event_name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_flood_events_window ON flood_events(event_name, created_at);

	CREATE TABLE IF NOT EXISTS artifacts (
		id         TEXT PRIMARY KEY,
		filename   TEXT NOT NULL,
		mime_type  TEXT NOT NULL,
		byte_size  INTEGER NOT NULL,
		file_path  TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_created ON artifacts(created_at);

	CREATE TABLE IF NOT EXISTS delivery_records (
		id            TEXT PRIMARY KEY,
		identity_hash TEXT NOT NULL,
		artifact_id   TEXT NOT NULL REFERENCES artifacts(id),
		created_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_delivery_records_match ON delivery_records(identity_hash, artifact_id, created_at);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *Repository) CountEventsSince(ctx context.Context, name string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flood_events WHERE event_name = ? AND created_at > ?`,
		name, since.UTC().Format(time.RFC3339Nano),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count flood events: %w", err)
	}
	return count, nil
}

func (r *Repository) RegisterEvent(ctx context.Context, name string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flood_events (id, event_name, created_at) VALUES (?, ?, ?)`,
		uuid.NewString(), name, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("register flood event: %w", err)
	}
	return nil
}

func (r *Repository) PutArtifact(ctx context.Context, filename string, mimeType string, data []byte, now time.Time) (ports.Artifact, error) {
	relPath, err := r.files.Write(filename, data)
	if err != nil {
		return ports.Artifact{}, err
	}
	meta := ports.Artifact{
		ArtifactID: uuid.NewString(),
		Filename:   filename,
		MimeType:   mimeType,
		ByteSize:   int64(len(data)),
		CreatedAt:  now.UTC(),
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO artifacts (id, filename, mime_type, byte_size, file_path, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		meta.ArtifactID, meta.Filename, meta.MimeType, meta.ByteSize, relPath, meta.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		_ = r.files.Remove(relPath)
		return ports.Artifact{}, fmt.Errorf("insert artifact: %w", err)
	}
	return meta, nil
}

func (r *Repository) GetArtifact(ctx context.Context, artifactID string) (ports.Artifact, []byte, error) {
	var (
		meta      ports.Artifact
		relPath   string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, filename, mime_type, byte_size, file_path, created_at FROM artifacts WHERE id = ?`,
		artifactID,
	).Scan(&meta.ArtifactID, &meta.Filename, &meta.MimeType, &meta.ByteSize, &relPath, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Artifact{}, nil, domainerrors.ErrArtifactNotFound
	}
	if err != nil {
		return ports.Artifact{}, nil, fmt.Errorf("select artifact: %w", err)
	}
	meta.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return ports.Artifact{}, nil, fmt.Errorf("parse artifact timestamp: %w", err)
	}
	data, err := r.files.Read(relPath)
	if err != nil {
		return ports.Artifact{}, nil, err
	}
	return meta, data, nil
}

func (r *Repository) DeleteArtifactsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, file_path FROM artifacts WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("select expired artifacts: %w", err)
	}
	defer rows.Close()

	type expired struct {
		id      string
		relPath string
	}
	var victims []expired
	for rows.Next() {
		var v expired
		if err := rows.Scan(&v.id, &v.relPath); err != nil {
			return 0, fmt.Errorf("scan expired artifact: %w", err)
		}
		victims = append(victims, v)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate expired artifacts: %w", err)
	}

	deleted := 0
	for _, v := range victims {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM artifacts WHERE id = ?`, v.id); err != nil {
			return deleted, fmt.Errorf("delete artifact row: %w", err)
		}
		if err := r.files.Remove(v.relPath); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (r *Repository) RecordDelivery(ctx context.Context, record ports.DeliveryRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO delivery_records (id, identity_hash, artifact_id, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), record.IdentityHash, record.ArtifactID, record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert delivery record: %w", err)
	}
	return nil
}

func (r *Repository) MostRecentDelivery(ctx context.Context, identityHash string, artifactID string) (ports.DeliveryRecord, bool, error) {
	var (
		record    ports.DeliveryRecord
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT identity_hash, artifact_id, created_at FROM delivery_records
		 WHERE identity_hash = ? AND artifact_id = ?
		 ORDER BY created_at DESC LIMIT 1`,
		identityHash, artifactID,
	).Scan(&record.IdentityHash, &record.ArtifactID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DeliveryRecord{}, false, nil
	}
	if err != nil {
		return ports.DeliveryRecord{}, false, fmt.Errorf("select delivery record: %w", err)
	}
	record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return ports.DeliveryRecord{}, false, fmt.Errorf("parse delivery timestamp: %w", err)
	}
	return record, true, nil
}

func (r *Repository) DeleteDeliveriesBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM delivery_records WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("delete delivery records: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted delivery records: %w", err)
	}
	return int(affected), nil
}
