package handler

import (
	"io"
	"net/http"

	"tenant-hub/internal/domain"
	"tenant-hub/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// OnboardingHandler serves the tenant-scoped onboarding endpoints. All
// routes run behind the tenant isolation guard, so the tenant in the path
// is already verified against the session by the time a handler executes.
type OnboardingHandler struct {
	steps    *usecase.ValidateStep
	drafts   *usecase.Drafts
	validate *validator.Validate
}

// NewOnboardingHandler creates a new onboarding handler.
func NewOnboardingHandler(steps *usecase.ValidateStep, drafts *usecase.Drafts) *OnboardingHandler {
	return &OnboardingHandler{
		steps:    steps,
		drafts:   drafts,
		validate: validator.New(),
	}
}

// validateStepRequest is the body of POST .../onboarding/steps/validate.
type validateStepRequest struct {
	Step string `json:"step" validate:"required"`
}

// validateStepResponse mirrors domain.StepValidation on the wire.
type validateStepResponse struct {
	Valid     bool     `json:"valid"`
	Reachable []string `json:"reachable"`
	Reason    string   `json:"reason"`
}

// stepsResponse lists the steps a session may navigate to right now.
type stepsResponse struct {
	Steps []string `json:"steps"`
}

// HandleValidateStep processes POST /:tenant_id/onboarding/steps/validate.
func (h *OnboardingHandler) HandleValidateStep(c echo.Context) error {
	var req validateStepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "step is required")
	}

	validation, err := h.steps.Execute(c.Request().Context(), c.Request().Header.Get("Cookie"), domain.Step(req.Step))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, validateStepResponse{
		Valid:     validation.Valid,
		Reachable: stepsToStrings(validation.Reachable),
		Reason:    string(validation.Reason),
	})
}

// HandleReachableSteps processes GET /:tenant_id/onboarding/steps.
func (h *OnboardingHandler) HandleReachableSteps(c echo.Context) error {
	steps, err := h.steps.Reachable(c.Request().Context(), c.Request().Header.Get("Cookie"))
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, stepsResponse{Steps: stepsToStrings(steps)})
}

// HandleGetDraft processes GET /:tenant_id/onboarding/drafts/:step.
func (h *OnboardingHandler) HandleGetDraft(c echo.Context) error {
	tc, err := domain.TenantFromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	data, err := h.drafts.Load(c.Request().Context(), tc.TenantID, domain.Step(c.Param("step")))
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSONBlob(http.StatusOK, data)
}

// HandleSaveDraft processes PUT /:tenant_id/onboarding/drafts/:step. The
// body is stored opaquely; only size and JSON well-formedness are checked.
func (h *OnboardingHandler) HandleSaveDraft(c echo.Context) error {
	tc, err := domain.TenantFromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}

	if err := h.drafts.Save(c.Request().Context(), tc.TenantID, domain.Step(c.Param("step")), body); err != nil {
		if httpErr := mapDomainError(err); httpErr.Code != http.StatusInternalServerError {
			return httpErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleDeleteDraft processes DELETE /:tenant_id/onboarding/drafts/:step.
func (h *OnboardingHandler) HandleDeleteDraft(c echo.Context) error {
	tc, err := domain.TenantFromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.drafts.Delete(c.Request().Context(), tc.TenantID, domain.Step(c.Param("step"))); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func stepsToStrings(steps []domain.Step) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, string(s))
	}
	return out
}
