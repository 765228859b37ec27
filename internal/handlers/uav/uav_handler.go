// internal/handlers/uav/uav_handler.go
package uav

import (
	"net/http"

	"uav-maintenance-service/internal/domain/uav"
	"uav-maintenance-service/internal/fleet"
	"uav-maintenance-service/internal/pkg/response"
	"uav-maintenance-service/internal/service/signature"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UAVHandler struct {
	store      *fleet.Store
	signatures *signature.SignatureService
	logger     *zap.Logger
}

func NewUAVHandler(store *fleet.Store, signatures *signature.SignatureService, logger *zap.Logger) *UAVHandler {
	return &UAVHandler{
		store:      store,
		signatures: signatures,
		logger:     logger,
	}
}

// remoteFailure maps store errors: wrapped ErrNotFound is 404, anything
// else coming back from the record store is a 502.
func remoteFailure(c *gin.Context, message string, err error) {
	response.FromError(c, http.StatusBadGateway, message, err)
}

// ========== Collection ==========

// ListUAVs returns the filtered view. Query parameters filter the current
// records ad hoc without touching the store's own filter.
func (h *UAVHandler) ListUAVs(c *gin.Context) {
	var filters uav.UAVListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query", err)
		return
	}

	_, hasSearch := c.GetQuery("search")
	_, hasStatus := c.GetQuery("status")

	var records []uav.UAV
	if hasSearch || hasStatus {
		status, err := fleet.ParseStatusFilter(filters.Status)
		if err != nil {
			response.ValidationError(c, "invalid status filter", err)
			return
		}
		records = fleet.Filter(h.store.Records(), filters.Search, status)
	} else {
		records = h.store.FilteredRecords()
	}

	response.Success(c, http.StatusOK, "uavs retrieved", gin.H{
		"uavs":  records,
		"count": len(records),
	})
}

// SetFilter updates the store's search term and/or status filter
func (h *UAVHandler) SetFilter(c *gin.Context) {
	var req uav.FilterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	var status fleet.StatusFilter
	if req.Status != nil {
		parsed, err := fleet.ParseStatusFilter(*req.Status)
		if err != nil {
			response.ValidationError(c, "invalid status filter", err)
			return
		}
		status = parsed
	}

	if req.Search != nil {
		h.store.SetSearchTerm(*req.Search)
	}
	if req.Status != nil {
		h.store.SetStatusFilter(status)
	}

	response.Success(c, http.StatusOK, "filter updated", h.store.Summary())
}

// GetState returns the store's loading flag, last error and counts
func (h *UAVHandler) GetState(c *gin.Context) {
	response.Success(c, http.StatusOK, "fleet state", h.store.Summary())
}

// Reload refreshes the collection from the record store
func (h *UAVHandler) Reload(c *gin.Context) {
	if err := h.store.Reload(c.Request.Context()); err != nil {
		remoteFailure(c, "reload failed", err)
		return
	}

	response.Success(c, http.StatusOK, "fleet reloaded", h.store.Summary())
}

// ========== Records ==========

func (h *UAVHandler) CreateUAV(c *gin.Context) {
	var req uav.CreateUAVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.store.Create(c.Request.Context(), &req); err != nil {
		h.logger.Error("failed to create uav",
			zap.String("uav_number", req.UAVNumber),
			zap.Error(err),
		)
		remoteFailure(c, "failed to create uav", err)
		return
	}

	response.Success(c, http.StatusCreated, "uav created", h.store.Summary())
}

func (h *UAVHandler) GetUAV(c *gin.Context) {
	record, ok := h.store.Find(c.Param("id"))
	if !ok {
		response.NotFound(c, "uav not found")
		return
	}

	response.Success(c, http.StatusOK, "uav retrieved", record)
}

func (h *UAVHandler) UpdateUAV(c *gin.Context) {
	id := c.Param("id")

	var req uav.UpdateUAVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	if req.IsEmpty() {
		response.Error(c, http.StatusBadRequest, "no fields to update", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.store.Update(c.Request.Context(), id, &req); err != nil {
		h.logger.Error("failed to update uav", zap.String("id", id), zap.Error(err))
		remoteFailure(c, "failed to update uav", err)
		return
	}

	record, ok := h.store.Find(id)
	if !ok {
		response.NotFound(c, "uav not found")
		return
	}
	response.Success(c, http.StatusOK, "uav updated", record)
}

func (h *UAVHandler) DeleteUAV(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.Remove(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete uav", zap.String("id", id), zap.Error(err))
		remoteFailure(c, "failed to delete uav", err)
		return
	}

	response.Success(c, http.StatusOK, "uav deleted", nil)
}

// ========== Signature ==========

func (h *UAVHandler) SaveSignature(c *gin.Context) {
	id := c.Param("id")

	var req uav.SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.signatures.Save(c.Request.Context(), id, req.Signature); err != nil {
		h.logger.Warn("failed to save signature", zap.String("id", id), zap.Error(err))
		remoteFailure(c, "failed to save signature", err)
		return
	}

	response.Success(c, http.StatusOK, "signature saved", nil)
}

// GetSignature serves the decoded signature image
func (h *UAVHandler) GetSignature(c *gin.Context) {
	img, err := h.signatures.Image(c.Param("id"))
	if err != nil {
		response.FromError(c, http.StatusInternalServerError, "signature not available", err)
		return
	}

	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// SignatureHistory lists archived signature images of a record
func (h *UAVHandler) SignatureHistory(c *gin.Context) {
	infos, err := h.signatures.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, http.StatusBadGateway, "failed to list signatures", err)
		return
	}

	response.Success(c, http.StatusOK, "signature history", infos)
}
