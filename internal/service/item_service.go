package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/grading"
	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

type itemRepository interface {
	ListByComponent(ctx context.Context, componentID string) ([]models.Item, error)
	FindByID(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id string) error
}

type itemComponentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Component, error)
}

// ItemService provides assessment-item use cases. Loose numeric
// payload values pass through the coercion chokepoint before they
// reach storage, so the grading core only ever sees clean numbers.
type ItemService struct {
	repo       itemRepository
	components itemComponentRepository
	subjects   componentSubjectRepository
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewItemService constructs an ItemService.
func NewItemService(repo itemRepository, components itemComponentRepository, subjects componentSubjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ItemService{repo: repo, components: components, subjects: subjects, cache: cache, validator: validate, logger: logger}
}

// List returns the items of a component the user owns.
func (s *ItemService) List(ctx context.Context, userID, componentID string) ([]models.Item, error) {
	if _, err := s.ensureComponent(ctx, userID, componentID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByComponent(ctx, componentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list items")
	}
	return items, nil
}

// Create logs a new assessment under a component.
func (s *ItemService) Create(ctx context.Context, userID, componentID string, req models.CreateItemRequest) (*models.Item, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid item payload")
	}
	component, err := s.ensureComponent(ctx, userID, componentID)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		ComponentID: component.ID,
		Name:        req.Name,
		Score:       grading.CoercePtr(req.Score),
		Max:         grading.CoercePtr(req.Max),
		Date:        req.Date,
		Target:      grading.CoercePtr(req.Target),
		Topic:       req.Topic,
	}
	if err := s.validateNumbers(item); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create item")
	}

	s.invalidateDashboard(ctx, userID)
	return item, nil
}

// Update mutates an item in place.
func (s *ItemService) Update(ctx context.Context, userID, componentID, id string, req models.UpdateItemRequest) (*models.Item, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid item payload")
	}
	if _, err := s.ensureComponent(ctx, userID, componentID); err != nil {
		return nil, err
	}

	item, err := s.findOwned(ctx, componentID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Score != nil {
		item.Score = grading.CoercePtr(req.Score)
	}
	if req.Max != nil {
		item.Max = grading.CoercePtr(req.Max)
	}
	if req.Date != nil {
		item.Date = req.Date
	}
	if req.Target != nil {
		item.Target = grading.CoercePtr(req.Target)
	}
	if req.Topic != nil {
		item.Topic = req.Topic
	}

	if err := s.validateNumbers(item); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update item")
	}

	s.invalidateDashboard(ctx, userID)
	return item, nil
}

// Delete removes an item.
func (s *ItemService) Delete(ctx context.Context, userID, componentID, id string) error {
	if _, err := s.ensureComponent(ctx, userID, componentID); err != nil {
		return err
	}
	if _, err := s.findOwned(ctx, componentID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete item")
	}
	s.invalidateDashboard(ctx, userID)
	return nil
}

// ensureComponent loads the component and verifies the user owns its
// subject.
func (s *ItemService) ensureComponent(ctx context.Context, userID, componentID string) (*models.Component, error) {
	component, err := s.components.FindByID(ctx, componentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "component not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load component")
	}
	if _, err := s.subjects.FindByID(ctx, userID, component.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "component not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return component, nil
}

func (s *ItemService) findOwned(ctx context.Context, componentID, id string) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load item")
	}
	if item.ComponentID != componentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "item not found")
	}
	return item, nil
}

func (s *ItemService) validateNumbers(item *models.Item) error {
	if item.Score != nil && *item.Score < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "score must be non-negative")
	}
	if item.Max != nil && *item.Max <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "max must be positive")
	}
	return nil
}

func (s *ItemService) invalidateDashboard(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}
}
