package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/advisor"
	"github.com/gradeseer/gradeseer-api/internal/dto"
	"github.com/gradeseer/gradeseer-api/internal/grading"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

// AdvisorClient generates advisory text from a system instruction and
// a prompt, returning the model that answered.
type AdvisorClient interface {
	Generate(ctx context.Context, system, prompt string) (string, string, error)
}

type advisorSubjectService interface {
	Overview(ctx context.Context, userID, id string) (*grading.SubjectContext, error)
}

type advisorDashboardService interface {
	Overview(ctx context.Context, userID string) (*dto.DashboardOverview, error)
}

// AdvisorService glues prompt construction, the LLM client, and the
// local fallback behind a single Chat operation. A failing model never
// surfaces as a request error; the user always receives text.
type AdvisorService struct {
	subjects  advisorSubjectService
	dashboard advisorDashboardService
	client    AdvisorClient
	prompts   *advisor.PromptBuilder
	fallback  *advisor.Fallback
	validator *validator.Validate
	logger    *zap.Logger
	enabled   bool
}

// NewAdvisorService constructs an AdvisorService. A nil client is
// allowed; every chat then renders the local fallback.
func NewAdvisorService(subjects advisorSubjectService, dashboard advisorDashboardService, client AdvisorClient, validate *validator.Validate, logger *zap.Logger, enabled bool) *AdvisorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AdvisorService{
		subjects:  subjects,
		dashboard: dashboard,
		client:    client,
		prompts:   advisor.NewPromptBuilder(),
		fallback:  advisor.NewFallback(),
		validator: validate,
		logger:    logger,
		enabled:   enabled,
	}
}

// Enabled reports whether the advisor feature is switched on.
func (s *AdvisorService) Enabled() bool {
	return s != nil && s.enabled
}

// Chat answers a student question in one of three modes. Errors are
// returned only for invalid requests or missing subjects; LLM failures
// degrade to locally rendered text.
func (s *AdvisorService) Chat(ctx context.Context, userID string, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrAdvisorDisabled, "")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chat payload")
	}

	var prompt, fallbackText string
	switch req.Mode {
	case dto.ChatModeSubject:
		snapshot, err := s.subjects.Overview(ctx, userID, req.SubjectID)
		if err != nil {
			return nil, err
		}
		prompt = s.prompts.SubjectPrompt(snapshot)
		fallbackText = s.fallback.Subject(snapshot)
	case dto.ChatModeDashboard:
		overview, err := s.dashboard.Overview(ctx, userID)
		if err != nil {
			return nil, err
		}
		prompt = s.prompts.DashboardPrompt(*overview)
		fallbackText = s.fallback.Dashboard(*overview)
	case dto.ChatModeHelp:
		prompt = s.prompts.AppHelpPrompt()
		fallbackText = s.fallback.Help()
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown chat mode")
	}

	if s.client == nil {
		return &dto.ChatResponse{Reply: fallbackText, Fallback: true}, nil
	}

	fullPrompt := prompt + "\n\nSTUDENT QUESTION:\n" + req.Message
	reply, model, err := s.client.Generate(ctx, advisor.SystemInstruction, fullPrompt)
	if err != nil {
		if errors.Is(err, advisor.ErrUnauthorized) {
			s.logger.Error("advisor credentials rejected", zap.Error(err))
		} else {
			s.logger.Warn("advisor generation failed, serving fallback", zap.Error(err))
		}
		return &dto.ChatResponse{Reply: fallbackText, Fallback: true}, nil
	}
	return &dto.ChatResponse{Reply: reply, Model: model, Fallback: false}, nil
}
