package handlers

import (
	"errors"
	"net/http"

	"mindease/services/directory"
	"mindease/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DirectoryHandler serves the reconciled therapist directory.
type DirectoryHandler struct {
	Service directory.DirectoryService
	Logger  *zap.Logger
}

func NewDirectoryHandler(svc directory.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{Service: svc, Logger: logger}
}

// GetDirectory reconciles on every load. A degraded read still answers with
// whatever clinic data exists, flagged in the body.
func (h *DirectoryHandler) GetDirectory(c *gin.Context) {
	result, err := h.Service.Reconcile(c.Request.Context())
	if err != nil {
		var degraded *directory.DegradedReadError
		if errors.As(err, &degraded) {
			h.Logger.Warn("serving degraded directory", zap.Error(err))
			c.JSON(http.StatusOK, result)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load directory", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
