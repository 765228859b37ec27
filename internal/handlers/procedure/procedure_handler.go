// internal/handlers/procedure/procedure_handler.go
package procedure

import (
	"net/http"

	"uav-maintenance-service/internal/middleware"
	"uav-maintenance-service/internal/pkg/response"
	procedureUsecase "uav-maintenance-service/internal/service/procedure"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProcedureHandler struct {
	service *procedureUsecase.ProcedureService
	logger  *zap.Logger
}

func NewProcedureHandler(service *procedureUsecase.ProcedureService, logger *zap.Logger) *ProcedureHandler {
	return &ProcedureHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ProcedureHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, "procedures retrieved", h.service.List())
}

func (h *ProcedureHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.FromError(c, http.StatusInternalServerError, "procedure not found", err)
		return
	}
	response.Success(c, http.StatusOK, "procedure retrieved", p)
}

func (h *ProcedureHandler) Progress(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	progress, err := h.service.Progress(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.FromError(c, http.StatusInternalServerError, "failed to get progress", err)
		return
	}
	response.Success(c, http.StatusOK, "progress retrieved", progress)
}

func (h *ProcedureHandler) ToggleStep(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	procedureID := c.Param("id")
	stepID := c.Param("step_id")

	progress, err := h.service.ToggleStep(c.Request.Context(), userID, procedureID, stepID)
	if err != nil {
		h.logger.Warn("failed to toggle step",
			zap.String("user_id", userID),
			zap.String("procedure_id", procedureID),
			zap.String("step_id", stepID),
			zap.Error(err),
		)
		response.FromError(c, http.StatusInternalServerError, "failed to toggle step", err)
		return
	}
	response.Success(c, http.StatusOK, "step toggled", progress)
}

func (h *ProcedureHandler) Reset(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	if err := h.service.Reset(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.FromError(c, http.StatusInternalServerError, "failed to reset progress", err)
		return
	}
	response.Success(c, http.StatusOK, "progress reset", nil)
}
