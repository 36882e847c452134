package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/dto"
	"github.com/gradeseer/gradeseer-api/internal/grading"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

const testSubjectID = "6a5f0e7c-9d2b-4f43-8a1e-3c7b9d5e2f10"

type mockAdvisorClient struct {
	reply  string
	model  string
	err    error
	prompt string
}

func (m *mockAdvisorClient) Generate(ctx context.Context, system, prompt string) (string, string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", "", m.err
	}
	return m.reply, m.model, nil
}

type mockOverviewProvider struct {
	snapshot *grading.SubjectContext
	err      error
}

func (m *mockOverviewProvider) Overview(ctx context.Context, userID, id string) (*grading.SubjectContext, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

type mockDashboardProvider struct {
	overview *dto.DashboardOverview
}

func (m *mockDashboardProvider) Overview(ctx context.Context, userID string) (*dto.DashboardOverview, error) {
	return m.overview, nil
}

func advisorSnapshot() *grading.SubjectContext {
	return &grading.SubjectContext{
		SubjectID:      testSubjectID,
		SubjectName:    "Calculus",
		CurrentPercent: 88,
		CurrentGrade:   2.0,
		SafetyZone:     grading.ZoneGreen,
	}
}

func newAdvisorTestService(client AdvisorClient) *AdvisorService {
	subjects := &mockOverviewProvider{snapshot: advisorSnapshot()}
	dashboard := &mockDashboardProvider{overview: &dto.DashboardOverview{}}
	return NewAdvisorService(subjects, dashboard, client, validator.New(), zap.NewNop(), true)
}

func TestAdvisorChatSubjectMode(t *testing.T) {
	client := &mockAdvisorClient{reply: "Keep your quiz pace up.", model: "gemini-2.0-flash"}
	svc := newAdvisorTestService(client)

	res, err := svc.Chat(context.Background(), "u1", dto.ChatRequest{
		Mode:      dto.ChatModeSubject,
		SubjectID: testSubjectID,
		Message:   "How am I doing?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Keep your quiz pace up.", res.Reply)
	assert.Equal(t, "gemini-2.0-flash", res.Model)
	assert.False(t, res.Fallback)
	assert.Contains(t, client.prompt, "Calculus")
	assert.Contains(t, client.prompt, "How am I doing?")
}

func TestAdvisorChatFallsBackOnClientError(t *testing.T) {
	client := &mockAdvisorClient{err: errors.New("upstream down")}
	svc := newAdvisorTestService(client)

	res, err := svc.Chat(context.Background(), "u1", dto.ChatRequest{
		Mode:      dto.ChatModeSubject,
		SubjectID: testSubjectID,
		Message:   "How am I doing?",
	})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.NotEmpty(t, res.Reply)
	assert.Empty(t, res.Model)
}

func TestAdvisorChatNilClientUsesFallback(t *testing.T) {
	svc := newAdvisorTestService(nil)

	res, err := svc.Chat(context.Background(), "u1", dto.ChatRequest{
		Mode:    dto.ChatModeHelp,
		Message: "What can this app do?",
	})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.NotEmpty(t, res.Reply)
}

func TestAdvisorChatDisabled(t *testing.T) {
	subjects := &mockOverviewProvider{snapshot: advisorSnapshot()}
	dashboard := &mockDashboardProvider{overview: &dto.DashboardOverview{}}
	svc := NewAdvisorService(subjects, dashboard, nil, validator.New(), zap.NewNop(), false)

	_, err := svc.Chat(context.Background(), "u1", dto.ChatRequest{Mode: dto.ChatModeHelp, Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAdvisorDisabled.Code, appErrors.FromError(err).Code)
}

func TestAdvisorChatSubjectModeRequiresSubjectID(t *testing.T) {
	svc := newAdvisorTestService(nil)

	_, err := svc.Chat(context.Background(), "u1", dto.ChatRequest{Mode: dto.ChatModeSubject, Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdvisorChatSubjectNotFound(t *testing.T) {
	subjects := &mockOverviewProvider{err: appErrors.Clone(appErrors.ErrNotFound, "subject not found")}
	dashboard := &mockDashboardProvider{overview: &dto.DashboardOverview{}}
	svc := NewAdvisorService(subjects, dashboard, nil, validator.New(), zap.NewNop(), true)

	_, err := svc.Chat(context.Background(), "u1", dto.ChatRequest{
		Mode:      dto.ChatModeSubject,
		SubjectID: testSubjectID,
		Message:   "How am I doing?",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
