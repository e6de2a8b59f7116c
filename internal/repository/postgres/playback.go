package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workorg/server/internal/repository"
)

func (r repo) GetPlayback(ctx context.Context, projectID string) (repository.PlaybackRecord, error) {
	var record repository.PlaybackRecord
	err := r.db.WithContext(ctx).
		Preload("AddedBy").
		First(&record, "project_id = ?", projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.PlaybackRecord{}, repository.ErrPlaybackNotFound
		}

		return repository.PlaybackRecord{}, err
	}

	return record, nil
}

// PutPlayback creates the record or replaces the existing one for the
// project, resetting is_playing and current_time. The upsert rides the
// unique index on project_id so two concurrent puts cannot leave two rows:
// last committed write wins.
func (r repo) PutPlayback(ctx context.Context, params *repository.PutPlaybackParams) (repository.PlaybackRecord, error) {
	record := repository.PlaybackRecord{
		ID:          uuid.NewString(),
		ProjectID:   params.ProjectID,
		VideoURL:    params.VideoURL,
		VideoID:     params.VideoID,
		Title:       params.Title,
		IsPlaying:   false,
		CurrentTime: 0,
		IsMinimized: false,
		AddedByID:   params.AddedByID,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"video_url", "video_id", "title",
				"is_playing", "current_time", "is_minimized",
				"added_by_id", "updated_at",
			}),
		}).
		Create(&record).Error
	if err != nil {
		return repository.PlaybackRecord{}, fmt.Errorf("failed to put playback record: %w", err)
	}

	return r.GetPlayback(ctx, params.ProjectID)
}

// UpdatePlaybackFlags applies a partial update; nil fields are untouched.
func (r repo) UpdatePlaybackFlags(ctx context.Context, params *repository.UpdatePlaybackFlagsParams) (repository.PlaybackRecord, error) {
	updates := make(map[string]any, 3)
	if params.IsPlaying != nil {
		updates["is_playing"] = *params.IsPlaying
	}
	if params.CurrentTime != nil {
		updates["current_time"] = *params.CurrentTime
	}
	if params.IsMinimized != nil {
		updates["is_minimized"] = *params.IsMinimized
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&repository.PlaybackRecord{}).
			Where("project_id = ?", params.ProjectID).
			Updates(updates)
		if res.Error != nil {
			return repository.PlaybackRecord{}, fmt.Errorf("failed to update playback flags: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.PlaybackRecord{}, repository.ErrPlaybackNotFound
		}
	}

	return r.GetPlayback(ctx, params.ProjectID)
}

// RemovePlayback is idempotent: removing a nonexistent record is not an
// error at the store level.
func (r repo) RemovePlayback(ctx context.Context, projectID string) error {
	err := r.db.WithContext(ctx).
		Delete(&repository.PlaybackRecord{}, "project_id = ?", projectID).Error
	if err != nil {
		return fmt.Errorf("failed to remove playback record: %w", err)
	}

	return nil
}
