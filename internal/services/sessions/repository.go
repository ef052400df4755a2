package sessions

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/surfscribe/annotator-api/internal/models"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new session repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateSession creates a new session with its surfer rows
func (r *RepositoryImpl) CreateSession(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSessionByUUID retrieves a session and its surfers by UUID
func (r *RepositoryImpl) GetSessionByUUID(ctx context.Context, uuid string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("Surfers", func(db *gorm.DB) *gorm.DB {
			return db.Order("surfers.id ASC")
		}).
		First(&session, "uuid = ?", uuid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &session, nil
}

// GetSessionByVideoFile retrieves the session annotating the given video file
func (r *RepositoryImpl) GetSessionByVideoFile(ctx context.Context, videoFile string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("Surfers", func(db *gorm.DB) *gorm.DB {
			return db.Order("surfers.id ASC")
		}).
		First(&session, "video_file = ?", videoFile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("getting session by video file: %w", err)
	}
	return &session, nil
}

// ListSessions retrieves all sessions with their surfer rows
func (r *RepositoryImpl) ListSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.WithContext(ctx).Preload("Surfers").Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// SaveSnapshot replaces the stored state of a session with the given
// snapshot. Surfer rows are rewritten wholesale; the snapshot is authoritative.
func (r *RepositoryImpl) SaveSnapshot(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Session
		if err := tx.First(&existing, "uuid = ?", session.UUID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("finding session: %w", err)
		}

		updates := map[string]any{
			"next_surfer_id":   session.NextSurferID,
			"session_modified": session.SessionModified,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating session: %w", err)
		}

		if err := tx.Unscoped().Where("session_id = ?", existing.ID).Delete(&models.Surfer{}).Error; err != nil {
			return fmt.Errorf("clearing surfer rows: %w", err)
		}

		for i := range session.Surfers {
			session.Surfers[i].ID = 0
			session.Surfers[i].SessionID = existing.ID
		}
		if len(session.Surfers) > 0 {
			if err := tx.Create(&session.Surfers).Error; err != nil {
				return fmt.Errorf("writing surfer rows: %w", err)
			}
		}
		return nil
	})
}

// DeleteSession deletes a session and its surfer rows by UUID
func (r *RepositoryImpl) DeleteSession(ctx context.Context, uuid string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, "uuid = ?", uuid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("finding session: %w", err)
		}

		if err := tx.Unscoped().Where("session_id = ?", session.ID).Delete(&models.Surfer{}).Error; err != nil {
			return fmt.Errorf("deleting surfer rows: %w", err)
		}
		if err := tx.Unscoped().Delete(&session).Error; err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		return nil
	})
}
