package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tenant-hub/internal/domain"
)

// Drafts wraps the draft store with the gateway-side constraints: known step
// names only and a bounded payload size.
type Drafts struct {
	store    domain.DraftStore
	maxBytes int
	logger   *slog.Logger
}

// NewDrafts creates a new Drafts usecase.
func NewDrafts(store domain.DraftStore, maxBytes int, l *slog.Logger) *Drafts {
	return &Drafts{store: store, maxBytes: maxBytes, logger: l}
}

// Save validates and stores a draft for the tenant/step pair.
func (uc *Drafts) Save(ctx context.Context, tenantID string, step domain.Step, data json.RawMessage) error {
	if !domain.IsStep(step) {
		return fmt.Errorf("unknown onboarding step %q", step)
	}
	if len(data) > uc.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrDraftTooLarge, len(data), uc.maxBytes)
	}
	if !json.Valid(data) {
		return fmt.Errorf("draft payload is not valid JSON")
	}
	return uc.store.Save(ctx, tenantID, step, data)
}

// Load returns the stored draft, or ErrDraftNotFound. Stale and incompatible
// drafts are purged by the store and reported as absent, never as an error
// the user sees.
func (uc *Drafts) Load(ctx context.Context, tenantID string, step domain.Step) (json.RawMessage, error) {
	if !domain.IsStep(step) {
		return nil, domain.ErrDraftNotFound
	}
	return uc.store.Load(ctx, tenantID, step)
}

// Delete discards the stored draft, if any.
func (uc *Drafts) Delete(ctx context.Context, tenantID string, step domain.Step) error {
	if !domain.IsStep(step) {
		return nil
	}
	return uc.store.Delete(ctx, tenantID, step)
}
