package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
	"github.com/gradeseer/gradeseer-api/pkg/jobs"
	"github.com/gradeseer/gradeseer-api/pkg/mailer"
)

type mockNotificationRepo struct {
	notifications map[string]*models.Notification
	createErr     error
}

func (m *mockNotificationRepo) List(ctx context.Context, userID string, filter models.NotificationFilter) ([]models.Notification, int, error) {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, len(out), nil
}

func (m *mockNotificationRepo) FindByID(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return n, nil
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	notification.ID = "notif-1"
	if m.notifications == nil {
		m.notifications = make(map[string]*models.Notification)
	}
	m.notifications[notification.ID] = notification
	return nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	m.notifications[id].Read = true
	return nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, userID, id string) error {
	delete(m.notifications, id)
	return nil
}

type mockUserLookup struct {
	user *models.User
}

func (m *mockUserLookup) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

type recordingSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	done     chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, msg mailer.Message) error {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
	return nil
}

func TestNotificationCreateEnqueuesEmail(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{})}
	queue := jobs.NewQueue("emails", NewEmailHandler(sender, zap.NewNop()), jobs.QueueConfig{Workers: 1})
	queue.Start(context.Background())
	defer queue.Stop()

	repo := &mockNotificationRepo{}
	users := &mockUserLookup{user: &models.User{ID: "u1", Email: "student@example.com", FullName: "Student"}}
	svc := NewNotificationService(repo, users, queue, validator.New(), zap.NewNop())

	notification, err := svc.Create(context.Background(), "u1", models.CreateNotificationRequest{
		Type:      models.NotificationReminder,
		Title:     "Final Exam tomorrow",
		Body:      "Your Calculus final is scheduled for tomorrow.",
		SendEmail: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "notif-1", notification.ID)

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("email was never delivered")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "student@example.com", sender.messages[0].ToEmail)
	assert.Equal(t, "Final Exam tomorrow", sender.messages[0].Subject)
}

func TestNotificationCreateWithoutEmail(t *testing.T) {
	repo := &mockNotificationRepo{}
	users := &mockUserLookup{}
	svc := NewNotificationService(repo, users, nil, validator.New(), zap.NewNop())

	notification, err := svc.Create(context.Background(), "u1", models.CreateNotificationRequest{
		Type:  models.NotificationInfo,
		Title: "Welcome",
		Body:  "Your account is ready.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, notification.ID)
}

func TestNotificationCreateSurvivesUserLookupFailure(t *testing.T) {
	repo := &mockNotificationRepo{}
	users := &mockUserLookup{}
	svc := NewNotificationService(repo, users, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), "missing-user", models.CreateNotificationRequest{
		Type:      models.NotificationWarning,
		Title:     "Grade at risk",
		Body:      "History has slipped below your target.",
		SendEmail: true,
	})
	require.NoError(t, err)
}

func TestNotificationMarkReadNotFound(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, &mockUserLookup{}, nil, validator.New(), zap.NewNop())

	err := svc.MarkRead(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestNotificationMarkRead(t *testing.T) {
	repo := &mockNotificationRepo{notifications: map[string]*models.Notification{
		"n1": {ID: "n1", UserID: "u1", Title: "Welcome"},
	}}
	svc := NewNotificationService(repo, &mockUserLookup{}, nil, validator.New(), zap.NewNop())

	require.NoError(t, svc.MarkRead(context.Background(), "u1", "n1"))
	assert.True(t, repo.notifications["n1"].Read)
}
