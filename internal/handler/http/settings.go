package http

import (
	"encoding/json"
	"net/http"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
	"github.com/smart-attendance/attendance-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetRules(w http.ResponseWriter, r *http.Request)
	UpdateRules(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	policyService policy.PolicyService
}

func NewSettingsHandler(policyService policy.PolicyService) SettingsHandler {
	return &settingsHandlerImpl{
		policyService: policyService,
	}
}

// GetRules implements SettingsHandler.
func (h *settingsHandlerImpl) GetRules(w http.ResponseWriter, r *http.Request) {
	p, err := h.policyService.GetActivePolicy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, policy.ToRulesResponse(p))
}

// UpdateRules implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var req policy.UpdateRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	p, err := h.policyService.UpdateRules(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance rules updated successfully", policy.ToRulesResponse(p))
}
