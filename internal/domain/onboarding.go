package domain

// Step is one stage in the ordered onboarding sequence a new tenant walks
// through before reaching normal operation.
type Step string

const (
	StepBusinessInfo Step = "business_info"
	StepSubscription Step = "subscription"
	StepPayment      Step = "payment"
	StepSetup        Step = "setup"
	StepComplete     Step = "complete"
)

// stepOrder defines the total order over onboarding steps.
var stepOrder = map[Step]int{
	StepBusinessInfo: 0,
	StepSubscription: 1,
	StepPayment:      2,
	StepSetup:        3,
	StepComplete:     4,
}

// Steps lists all onboarding steps in order.
func Steps() []Step {
	return []Step{StepBusinessInfo, StepSubscription, StepPayment, StepSetup, StepComplete}
}

// IsStep reports whether s names a known onboarding step.
func IsStep(s Step) bool {
	_, ok := stepOrder[s]
	return ok
}

// TransitionReason is a machine-readable reason code for a step transition
// decision. Callers use it to choose user messaging, not to re-derive logic.
type TransitionReason string

const (
	ReasonInitial           TransitionReason = "initial"
	ReasonValid             TransitionReason = "valid"
	ReasonInvalidTransition TransitionReason = "invalid_transition"
	ReasonTierRestriction   TransitionReason = "tier_restriction"
	ReasonInvalid           TransitionReason = "invalid"
	ReasonError             TransitionReason = "error"
)

// StepValidation is the outcome of validating a requested step transition.
type StepValidation struct {
	Valid     bool             `json:"valid"`
	Reachable []Step           `json:"reachable"`
	Reason    TransitionReason `json:"reason"`
}

// OnboardingState is the tenant-side state a transition is evaluated against.
type OnboardingState struct {
	Current         Step
	Tier            SubscriptionTier
	PaymentRecorded bool
}

// ValidateTransition decides whether the requested step is reachable from
// the current onboarding state.
//
// Forward movement of exactly one step is valid; backward movement never is.
// The setup step carries the tier branches: non-premium tiers reach it from
// subscription, skipping payment entirely; premium-class tiers reach it only
// once payment is recorded. The payment step itself is premium-only, and
// requesting it on a lower tier is a tier restriction, distinct from an
// ordering violation.
func ValidateTransition(state OnboardingState, requested Step) StepValidation {
	if !IsStep(requested) {
		return StepValidation{Valid: false, Reachable: ReachableSteps(state), Reason: ReasonInvalid}
	}

	// First visit: only the first step is reachable.
	if state.Current == "" {
		if requested == StepBusinessInfo {
			return StepValidation{Valid: true, Reachable: []Step{StepBusinessInfo}, Reason: ReasonInitial}
		}
		return StepValidation{Valid: false, Reachable: []Step{StepBusinessInfo}, Reason: ReasonInvalidTransition}
	}

	if !IsStep(state.Current) {
		return StepValidation{Valid: false, Reachable: nil, Reason: ReasonError}
	}

	if stepOrder[requested] <= stepOrder[state.Current] {
		return StepValidation{Valid: false, Reachable: ReachableSteps(state), Reason: ReasonInvalidTransition}
	}

	// Tier restriction is reported only for an otherwise orderly transition;
	// a multi-step jump to payment stays an ordering violation on any tier.
	if requested == StepPayment && !state.Tier.IsPremiumClass() {
		if state.Current == StepSubscription {
			return StepValidation{Valid: false, Reachable: ReachableSteps(state), Reason: ReasonTierRestriction}
		}
		return StepValidation{Valid: false, Reachable: ReachableSteps(state), Reason: ReasonInvalidTransition}
	}

	if stepAllowed(state, requested) {
		return StepValidation{Valid: true, Reachable: ReachableSteps(state), Reason: ReasonValid}
	}
	return StepValidation{Valid: false, Reachable: ReachableSteps(state), Reason: ReasonInvalidTransition}
}

// ReachableSteps returns the set of steps currently reachable from state.
func ReachableSteps(state OnboardingState) []Step {
	if state.Current == "" {
		return []Step{StepBusinessInfo}
	}
	if !IsStep(state.Current) {
		return nil
	}

	var reachable []Step
	for _, s := range Steps() {
		if stepOrder[s] <= stepOrder[state.Current] {
			continue
		}
		if s == StepPayment && !state.Tier.IsPremiumClass() {
			continue
		}
		if stepAllowed(state, s) {
			reachable = append(reachable, s)
		}
	}
	return reachable
}

// stepAllowed holds the forward-movement rules shared by validation and
// reachability. Callers have already rejected unknown steps, backward
// movement and the premium-only payment step.
func stepAllowed(state OnboardingState, requested Step) bool {
	if requested == StepSetup {
		if state.Tier.IsPremiumClass() {
			// Premium tiers enter setup from subscription or payment, but
			// only once payment is recorded.
			return (state.Current == StepSubscription || state.Current == StepPayment) &&
				state.PaymentRecorded
		}
		// Non-premium shortcut: subscription -> setup, skipping payment.
		return state.Current == StepSubscription
	}
	return stepOrder[requested]-stepOrder[state.Current] == 1
}
