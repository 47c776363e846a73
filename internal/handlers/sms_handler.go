package handlers

import (
	"net/http"
	"strconv"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
	"github.com/vishnu6512/Guardian-Grid/internal/repositories"
	"github.com/vishnu6512/Guardian-Grid/pkg/utils"
)

type SMSHandler struct {
	Logs *repositories.SMSLogRepository
}

func NewSMSHandler(logs *repositories.SMSLogRepository) *SMSHandler {
	return &SMSHandler{Logs: logs}
}

// ListLogs returns recent outbound SMS records for the admin audit view
func (h *SMSHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.Logs.List(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load SMS logs")
		return
	}
	if logs == nil {
		logs = []*models.SMSLog{}
	}
	utils.JSON(w, http.StatusOK, logs)
}
