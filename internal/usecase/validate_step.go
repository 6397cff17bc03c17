package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"tenant-hub/internal/domain"
)

// ValidateStep gates onboarding step transitions against the authoritative
// session's onboarding state and subscription tier.
type ValidateStep struct {
	sessions domain.SessionStore
	logger   *slog.Logger
}

// NewValidateStep creates a new ValidateStep usecase.
func NewValidateStep(s domain.SessionStore, l *slog.Logger) *ValidateStep {
	return &ValidateStep{sessions: s, logger: l}
}

// Execute validates a requested step for the session behind cookieHeader.
func (uc *ValidateStep) Execute(ctx context.Context, cookieHeader string, requested domain.Step) (*domain.StepValidation, error) {
	state, err := uc.onboardingState(ctx, cookieHeader)
	if err != nil {
		return nil, err
	}

	validation := domain.ValidateTransition(*state, requested)
	if !validation.Valid {
		uc.logger.InfoContext(ctx, "onboarding step rejected",
			"current_step", string(state.Current),
			"requested_step", string(requested),
			"tier", string(state.Tier),
			"reason", string(validation.Reason))
	}
	return &validation, nil
}

// Reachable returns the steps currently reachable for the session.
func (uc *ValidateStep) Reachable(ctx context.Context, cookieHeader string) ([]domain.Step, error) {
	state, err := uc.onboardingState(ctx, cookieHeader)
	if err != nil {
		return nil, err
	}
	return domain.ReachableSteps(*state), nil
}

func (uc *ValidateStep) onboardingState(ctx context.Context, cookieHeader string) (*domain.OnboardingState, error) {
	session, err := uc.sessions.GetSession(ctx, cookieHeader, 0)
	if err != nil {
		return nil, err
	}
	if !session.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	if session.OnboardingCompleted {
		return &domain.OnboardingState{
			Current:         domain.StepComplete,
			Tier:            session.Tier,
			PaymentRecorded: session.PaymentRecorded,
		}, nil
	}
	if session.CurrentStep != "" && !domain.IsStep(session.CurrentStep) {
		return nil, fmt.Errorf("session reports unknown onboarding step %q", session.CurrentStep)
	}
	return &domain.OnboardingState{
		Current:         session.CurrentStep,
		Tier:            session.Tier,
		PaymentRecorded: session.PaymentRecorded,
	}, nil
}
