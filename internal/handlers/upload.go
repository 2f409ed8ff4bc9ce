package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sachinottawa/call-agent-backend/internal/apierr"
	"github.com/sachinottawa/call-agent-backend/internal/services"
	"github.com/sachinottawa/call-agent-backend/internal/validation"
)

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// CheckUpload reports whether a dataset already exists for the email, so the
// frontend can ask for overwrite confirmation before re-uploading.
func (uh *UploadHandler) CheckUpload(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		RespondError(c, http.StatusBadRequest, "email is required")
		return
	}

	exists, err := uh.uploadService.CheckExists(c.Request.Context(), email)
	if err != nil {
		RespondServiceError(c, err, "Failed to check upload status")
		return
	}
	RespondOK(c, gin.H{"exists": exists})
}

type uploadCallsRequest struct {
	Email  string          `json:"email"`
	Events json.RawMessage `json:"events"`
}

// UploadCalls validates and ingests a full call-event batch, replacing any
// prior dataset for the email.
func (uh *UploadHandler) UploadCalls(c *gin.Context) {
	var req uploadCallsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "email and events[] are required")
		return
	}
	if req.Email == "" || len(req.Events) == 0 {
		RespondError(c, http.StatusBadRequest, "email and events[] are required")
		return
	}

	events, err := validation.ValidateCallEvents(req.Events)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := uh.uploadService.ReplaceUpload(c.Request.Context(), req.Email, events); err != nil {
		RespondServiceError(c, err, uploadFailureMessage(err))
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func uploadFailureMessage(err error) string {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		switch ae.Code {
		case services.CodeOverwriteUpload:
			return "Failed to overwrite existing upload"
		case services.CodeCreateUpload:
			return "Failed to create upload"
		case services.CodeInsertCallEvents:
			return "Failed to insert call events"
		}
	}
	return "Failed to save call data"
}
