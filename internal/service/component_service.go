package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/grading"
	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

type componentRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.Component, error)
	FindByID(ctx context.Context, id string) (*models.Component, error)
	Create(ctx context.Context, component *models.Component) error
	Update(ctx context.Context, component *models.Component) error
	Delete(ctx context.Context, id string) error
}

type componentSubjectRepository interface {
	FindByID(ctx context.Context, userID, id string) (*models.Subject, error)
}

// ComponentService provides grading-component use cases. Creation and
// updates enforce the sibling-weight and priority-uniqueness rules at
// the application layer; storage does not.
type ComponentService struct {
	repo      componentRepository
	subjects  componentSubjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewComponentService constructs a ComponentService.
func NewComponentService(repo componentRepository, subjects componentSubjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ComponentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ComponentService{repo: repo, subjects: subjects, cache: cache, validator: validate, logger: logger}
}

// List returns the components of a subject owned by the user.
func (s *ComponentService) List(ctx context.Context, userID, subjectID string) ([]models.Component, error) {
	if err := s.ensureSubject(ctx, userID, subjectID); err != nil {
		return nil, err
	}
	components, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list components")
	}
	return components, nil
}

// Create adds a grading component to a subject.
func (s *ComponentService) Create(ctx context.Context, userID, subjectID string, req models.CreateComponentRequest) (*models.Component, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid component payload")
	}
	if err := s.ensureSubject(ctx, userID, subjectID); err != nil {
		return nil, err
	}

	siblings, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sibling components")
	}
	if err := s.checkInvariants(siblings, req.Percentage, req.Priority, ""); err != nil {
		return nil, err
	}

	component := &models.Component{
		SubjectID:  subjectID,
		Name:       req.Name,
		Percentage: strconv.FormatFloat(req.Percentage, 'f', -1, 64),
		Priority:   req.Priority,
	}
	if err := s.repo.Create(ctx, component); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create component")
	}

	s.invalidateDashboard(ctx, userID)
	return component, nil
}

// Update modifies a component's name, weight, or priority.
func (s *ComponentService) Update(ctx context.Context, userID, subjectID, id string, req models.UpdateComponentRequest) (*models.Component, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid component payload")
	}
	if err := s.ensureSubject(ctx, userID, subjectID); err != nil {
		return nil, err
	}

	component, err := s.findOwned(ctx, subjectID, id)
	if err != nil {
		return nil, err
	}

	weight := grading.Weight(*component)
	if req.Percentage != nil {
		weight = *req.Percentage
	}
	priority := component.Priority
	if req.Priority != nil {
		priority = *req.Priority
	}

	siblings, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sibling components")
	}
	if err := s.checkInvariants(siblings, weight, priority, id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		component.Name = *req.Name
	}
	if req.Percentage != nil {
		component.Percentage = strconv.FormatFloat(*req.Percentage, 'f', -1, 64)
	}
	if req.Priority != nil {
		component.Priority = *req.Priority
	}

	if err := s.repo.Update(ctx, component); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update component")
	}

	s.invalidateDashboard(ctx, userID)
	return component, nil
}

// Delete removes a component and its items.
func (s *ComponentService) Delete(ctx context.Context, userID, subjectID, id string) error {
	if err := s.ensureSubject(ctx, userID, subjectID); err != nil {
		return err
	}
	if _, err := s.findOwned(ctx, subjectID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete component")
	}
	s.invalidateDashboard(ctx, userID)
	return nil
}

func (s *ComponentService) ensureSubject(ctx context.Context, userID, subjectID string) error {
	if _, err := s.subjects.FindByID(ctx, userID, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return nil
}

func (s *ComponentService) findOwned(ctx context.Context, subjectID, id string) (*models.Component, error) {
	component, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "component not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load component")
	}
	if component.SubjectID != subjectID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "component not found")
	}
	return component, nil
}

// checkInvariants verifies the sibling weight sum stays within 100 and
// the priority is unique within the subject. excludeID skips the
// component being updated.
func (s *ComponentService) checkInvariants(siblings []models.Component, weight float64, priority int, excludeID string) error {
	total := weight
	for _, sibling := range siblings {
		if sibling.ID == excludeID {
			continue
		}
		total += grading.Weight(sibling)
		if sibling.Priority == priority {
			return appErrors.Clone(appErrors.ErrConflict, "component priority already in use")
		}
	}
	if total > 100 {
		return appErrors.Clone(appErrors.ErrInvalidWeights, "")
	}
	return nil
}

func (s *ComponentService) invalidateDashboard(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}
}
