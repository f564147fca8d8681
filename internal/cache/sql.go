package cache

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/salespulse-backend/pkg/db"
	"github.com/angelmondragon/salespulse-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps one dataset_snapshots row per cache key.
type SQLStore struct {
	client    *db.Client
	retention time.Duration
	logg      *logger.Logger
	now       func() time.Time
}

func NewSQLStore(client *db.Client, retention time.Duration, logg *logger.Logger) *SQLStore {
	if logg == nil {
		logg = logger.Nop()
	}
	return &SQLStore{client: client, retention: retention, logg: logg, now: time.Now}
}

// AutoMigrate creates the table when goose migrations are not in play.
func (s *SQLStore) AutoMigrate(ctx context.Context) error {
	return s.client.DB().WithContext(ctx).AutoMigrate(&models.DatasetSnapshot{})
}

func (s *SQLStore) Read(ctx context.Context, key string) (Envelope, bool) {
	var row models.DatasetSnapshot
	err := s.client.DB().WithContext(ctx).Where("cache_key = ?", key).Take(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.WarnErr(s.logg.WithFields(ctx, map[string]any{
				"cache_key":  key,
				"error_dump": pkgerrors.Dump(err),
			}), "cache.sql.read_failed", err)
		}
		return Envelope{}, false
	}
	env, err := decode([]byte(row.Body))
	if err != nil {
		s.logg.WarnErr(s.logg.WithField(ctx, "cache_key", key), "cache.sql.decode_failed", err)
		return Envelope{}, false
	}
	return env, true
}

// Write upserts the envelope and prunes rows older than the retention period.
func (s *SQLStore) Write(ctx context.Context, key string, env Envelope) error {
	body, err := encode(env)
	if err != nil {
		return err
	}
	row := models.DatasetSnapshot{
		CacheKey: key,
		Body:     string(body),
		StoredAt: env.Timestamp,
	}
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "stored_at", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert dataset snapshot")
		}
		if s.retention <= 0 {
			return nil
		}
		cutoff := s.now().Add(-s.retention).UnixMilli()
		if err := tx.Where("stored_at < ? AND cache_key <> ?", cutoff, key).
			Delete(&models.DatasetSnapshot{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prune dataset snapshots")
		}
		return nil
	})
}
