package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

type historyRepository interface {
	List(ctx context.Context, userID string, filter models.HistoryFilter) ([]models.HistoryRecord, int, error)
	FindByID(ctx context.Context, userID, id string) (*models.HistoryRecord, error)
	Delete(ctx context.Context, userID, id string) error
}

// HistoryService provides read and delete access to archival records.
// Records are written only by the finish-subject flow.
type HistoryService struct {
	repo   historyRepository
	logger *zap.Logger
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(repo historyRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{repo: repo, logger: logger}
}

// List returns the user's archived subjects.
func (s *HistoryService) List(ctx context.Context, userID string, filter models.HistoryFilter) ([]models.HistoryRecord, int, error) {
	records, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list history")
	}
	return records, total, nil
}

// Get returns one archival record.
func (s *HistoryService) Get(ctx context.Context, userID, id string) (*models.HistoryRecord, error) {
	record, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "history record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history record")
	}
	return record, nil
}

// Delete removes an archival record.
func (s *HistoryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete history record")
	}
	return nil
}
