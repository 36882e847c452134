package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/grading"
	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, userID string, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, userID, id string) (*models.Subject, error)
	FindTree(ctx context.Context, userID, id string) (*models.SubjectTree, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, userID, id string) error
	Finish(ctx context.Context, record *models.HistoryRecord) error
}

// FinishResult reports the archival outcome of finishing a subject.
type FinishResult struct {
	Record     models.HistoryRecord `json:"record"`
	FinalGrade float64              `json:"final_grade"`
	Percent    float64              `json:"percent"`
}

// SubjectService provides subject use cases including the finish
// (archive) flow and the per-subject status overview.
type SubjectService struct {
	repo      subjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the user's subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, userID string, filter models.SubjectFilter) ([]models.Subject, int, error) {
	subjects, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, total, nil
}

// Create registers a new subject for the user.
func (s *SubjectService) Create(ctx context.Context, userID string, req models.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	units := req.Units
	if units <= 0 {
		units = grading.DefaultUnits
	}

	subject := &models.Subject{
		UserID:      userID,
		Name:        req.Name,
		IsMajor:     req.IsMajor,
		TargetGrade: req.TargetGrade,
		Color:       req.Color,
		Units:       units,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.invalidateDashboard(ctx, userID)
	return subject, nil
}

// Get returns a subject with its nested components and items.
func (s *SubjectService) Get(ctx context.Context, userID, id string) (*models.SubjectTree, error) {
	tree, err := s.repo.FindTree(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return tree, nil
}

// Update modifies a subject's mutable fields.
func (s *SubjectService) Update(ctx context.Context, userID, id string, req models.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.IsMajor != nil {
		subject.IsMajor = *req.IsMajor
	}
	if req.TargetGrade != nil {
		subject.TargetGrade = req.TargetGrade
	}
	if req.Color != nil {
		subject.Color = req.Color
	}
	if req.Units != nil && *req.Units > 0 {
		subject.Units = *req.Units
	}

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}

	s.invalidateDashboard(ctx, userID)
	return subject, nil
}

// Delete removes a subject and all nested data.
func (s *SubjectService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.FindByID(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.invalidateDashboard(ctx, userID)
	return nil
}

// Overview returns the derived status snapshot for a subject.
func (s *SubjectService) Overview(ctx context.Context, userID, id string) (*grading.SubjectContext, error) {
	tree, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return grading.AssembleContext(*tree), nil
}

// Finish archives a subject into history and removes the live rows in
// one transaction. The final grade counts only scored items and uses
// the archival scale; the target comparison is <= on grade points
// (lower is better).
func (s *SubjectService) Finish(ctx context.Context, userID, id string) (*FinishResult, error) {
	tree, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	percent := grading.RawSubjectPercent(*tree)
	finalGrade := grading.GradePoint(percent, grading.ScaleArchival)

	status := models.HistoryReached
	targetText := ""
	if tree.TargetGrade != nil {
		targetText = fmt.Sprintf("%.2f", *tree.TargetGrade)
		if finalGrade > *tree.TargetGrade {
			status = models.HistoryMissed
		}
	}

	record := &models.HistoryRecord{
		SubjectID:   tree.ID,
		UserID:      userID,
		CourseName:  tree.Name,
		TargetGrade: targetText,
		FinalGrade:  fmt.Sprintf("%.2f", finalGrade),
		Status:      status,
		Units:       tree.Units,
	}
	if err := s.repo.Finish(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finish subject")
	}

	s.logger.Info("subject finished",
		zap.String("subject_id", tree.ID),
		zap.String("final_grade", record.FinalGrade),
		zap.String("status", string(status)),
	)
	s.invalidateDashboard(ctx, userID)
	return &FinishResult{Record: *record, FinalGrade: finalGrade, Percent: percent}, nil
}

func (s *SubjectService) invalidateDashboard(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}
}
