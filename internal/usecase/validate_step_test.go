package usecase

import (
	"context"
	"log/slog"
	"testing"

	"tenant-hub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionAt(step domain.Step, tier domain.SubscriptionTier, paid bool) *fakeSessionStore {
	return &fakeSessionStore{sessions: []*domain.Session{{
		Authenticated:   true,
		UserID:          "user-123",
		TenantID:        "tenant-1",
		Tier:            tier,
		NeedsOnboarding: true,
		CurrentStep:     step,
		PaymentRecorded: paid,
	}}}
}

func TestValidateStep_Execute(t *testing.T) {
	t.Run("free tier skips payment into setup", func(t *testing.T) {
		uc := NewValidateStep(sessionAt(domain.StepSubscription, domain.TierFree, false), slog.Default())
		v, err := uc.Execute(context.Background(), "sid=abc", domain.StepSetup)
		require.NoError(t, err)
		assert.True(t, v.Valid)
		assert.Equal(t, domain.ReasonValid, v.Reason)
	})

	t.Run("free tier payment request is a tier restriction", func(t *testing.T) {
		uc := NewValidateStep(sessionAt(domain.StepSubscription, domain.TierFree, false), slog.Default())
		v, err := uc.Execute(context.Background(), "sid=abc", domain.StepPayment)
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, domain.ReasonTierRestriction, v.Reason)
	})

	t.Run("completed onboarding rejects further transitions", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []*domain.Session{{
			Authenticated:       true,
			Tier:                domain.TierPremium,
			OnboardingCompleted: true,
		}}}
		uc := NewValidateStep(store, slog.Default())
		v, err := uc.Execute(context.Background(), "sid=abc", domain.StepSetup)
		require.NoError(t, err)
		assert.False(t, v.Valid)
	})

	t.Run("unauthenticated session", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []*domain.Session{{Authenticated: false}}}
		uc := NewValidateStep(store, slog.Default())
		_, err := uc.Execute(context.Background(), "sid=abc", domain.StepBusinessInfo)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("corrupt step in session", func(t *testing.T) {
		uc := NewValidateStep(sessionAt(domain.Step("limbo"), domain.TierFree, false), slog.Default())
		_, err := uc.Execute(context.Background(), "sid=abc", domain.StepSetup)
		assert.Error(t, err)
	})
}

func TestValidateStep_Reachable(t *testing.T) {
	uc := NewValidateStep(sessionAt(domain.StepSubscription, domain.TierPremium, false), slog.Default())
	steps, err := uc.Reachable(context.Background(), "sid=abc")
	require.NoError(t, err)
	assert.Equal(t, []domain.Step{domain.StepPayment}, steps)
}
