package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
	"github.com/gradeseer/gradeseer-api/pkg/jobs"
	"github.com/gradeseer/gradeseer-api/pkg/mailer"
)

type notificationRepository interface {
	List(ctx context.Context, userID string, filter models.NotificationFilter) ([]models.Notification, int, error)
	FindByID(ctx context.Context, userID, id string) (*models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	MarkRead(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
}

type notificationUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// EmailJob is the payload handed to the notification email queue.
type EmailJob struct {
	Message mailer.Message
}

// NotificationService provides notification use cases. Email delivery
// goes through the job queue so a failing send never affects the
// stored notification.
type NotificationService struct {
	repo      notificationRepository
	users     notificationUserRepository
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs a NotificationService. A nil queue
// disables email side effects.
func NewNotificationService(repo notificationRepository, users notificationUserRepository, queue *jobs.Queue, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NotificationService{repo: repo, users: users, queue: queue, validator: validate, logger: logger}
}

// NewEmailHandler returns the queue handler that delivers notification
// emails through the provided sender.
func NewEmailHandler(sender mailer.Sender, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(EmailJob)
		if !ok {
			logger.Error("unexpected email job payload", zap.String("job_id", job.ID))
			return nil
		}
		return sender.Send(ctx, payload.Message)
	}
}

// List returns the user's notifications.
func (s *NotificationService) List(ctx context.Context, userID string, filter models.NotificationFilter) ([]models.Notification, int, error) {
	notifications, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, total, nil
}

// Create stores a notification and, when requested, enqueues an email.
// Queue failures are logged and never surface to the caller.
func (s *NotificationService) Create(ctx context.Context, userID string, req models.CreateNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}

	notification := &models.Notification{
		UserID: userID,
		Type:   req.Type,
		Title:  req.Title,
		Body:   req.Body,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}

	if req.SendEmail {
		s.enqueueEmail(ctx, userID, notification)
	}
	return notification, nil
}

// MarkRead flags a notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := s.find(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.find(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}
	return nil
}

func (s *NotificationService) find(ctx context.Context, userID, id string) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification")
	}
	return notification, nil
}

func (s *NotificationService) enqueueEmail(ctx context.Context, userID string, notification *models.Notification) {
	if s.queue == nil {
		return
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("skipping notification email, user lookup failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: "notification_email",
		Payload: EmailJob{
			Message: mailer.Message{
				ToEmail: user.Email,
				ToName:  user.FullName,
				Subject: notification.Title,
				Text:    notification.Body,
			},
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification email", zap.String("notification_id", notification.ID), zap.Error(err))
	}
}
