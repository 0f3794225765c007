package api

import (
	"alcyxob/workout-roulette/internal/backup"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BackupHandler holds the backup service dependency.
type BackupHandler struct {
	backupService backup.Service
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService backup.Service) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ImportBackupRequest defines the expected JSON for restoring a snapshot.
type ImportBackupRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// BackupResponse is the DTO for a created backup.
type BackupResponse struct {
	ObjectKey   string `json:"objectKey"`
	DownloadURL string `json:"downloadUrl"`
}

// --- Handler Methods ---

// ExportBackup dumps the whole store to a JSON snapshot in object storage
// and returns the key plus a temporary download URL.
func (h *BackupHandler) ExportBackup(c *gin.Context) {
	objectKey, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to export backup.")
		return
	}

	downloadURL, err := h.backupService.DownloadURL(c.Request.Context(), objectKey)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Backup stored but URL generation failed.")
		return
	}

	c.JSON(http.StatusCreated, BackupResponse{
		ObjectKey:   objectKey,
		DownloadURL: downloadURL,
	})
}

// ImportBackup restores a snapshot into an empty store.
func (h *BackupHandler) ImportBackup(c *gin.Context) {
	var req ImportBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.backupService.Import(c.Request.Context(), req.ObjectKey); err != nil {
		switch {
		case errors.Is(err, backup.ErrInvalidSnapshot):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, backup.ErrStoreNotEmpty):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to import backup.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
