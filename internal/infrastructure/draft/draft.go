// Package draft persists in-progress onboarding form data per tenant and
// step, so a page reload during onboarding does not lose partially entered
// data. Records are versioned and TTL-bound: a stale or incompatible record
// is treated as absent and purged, never surfaced as an error to the user.
package draft

import (
	"encoding/json"
	"time"

	"tenant-hub/internal/domain"
	"tenant-hub/tenant"
)

// CurrentVersion is the draft envelope schema version. Bumping it
// invalidates every stored draft, which is the point: a schema change to a
// step's draft shape must not resurrect an incompatible old draft.
const CurrentVersion = 2

// envelope wraps the raw draft payload with the metadata used to decide
// whether it is still loadable.
type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	TTLMs   int64           `json:"ttlMs"`
	Data    json.RawMessage `json:"data"`
}

// usable reports whether the envelope may still be served at the given time.
func (e *envelope) usable(now time.Time) bool {
	if e.Version != CurrentVersion {
		return false
	}
	return now.Sub(e.SavedAt) <= time.Duration(e.TTLMs)*time.Millisecond
}

// key builds the storage key for a tenant/step pair. The tenant part uses
// the derived storage namespace, keeping draft keys aligned with the rest of
// the tenant's storage partition naming.
func key(tenantID string, step domain.Step) string {
	return "draft:" + tenant.StorageNamespace(tenantID) + ":" + string(step)
}
