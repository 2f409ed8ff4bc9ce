package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sachinottawa/call-agent-backend/internal/apierr"
	"github.com/sachinottawa/call-agent-backend/internal/services"
)

type GraphDataHandler struct {
	graphDataService services.GraphDataService
}

func NewGraphDataHandler(graphDataService services.GraphDataService) *GraphDataHandler {
	return &GraphDataHandler{graphDataService: graphDataService}
}

// GetUserGraphData returns the manually edited hourly snapshot for an email.
// An email with no prior save answers exists:false, not an error.
func (gh *GraphDataHandler) GetUserGraphData(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		RespondError(c, http.StatusBadRequest, "email is required")
		return
	}

	snapshot, err := gh.graphDataService.FetchSnapshot(c.Request.Context(), email)
	if err != nil {
		RespondServiceError(c, err, graphFetchFailureMessage(err))
		return
	}
	if !snapshot.Exists {
		RespondOK(c, gin.H{"exists": false})
		return
	}
	RespondOK(c, gin.H{"exists": true, "data": snapshot.Points})
}

type saveGraphDataRequest struct {
	Email string         `json:"email"`
	Data  map[string]any `json:"data"`
}

// SaveGraphData overwrites the email's snapshot with the submitted full set
// of {hour: value} pairs.
func (gh *GraphDataHandler) SaveGraphData(c *gin.Context) {
	var req saveGraphDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" {
		RespondError(c, http.StatusBadRequest, "email is required")
		return
	}
	if req.Data == nil {
		RespondError(c, http.StatusBadRequest, "data is required")
		return
	}

	if err := gh.graphDataService.ReplaceSnapshot(c.Request.Context(), req.Email, req.Data); err != nil {
		RespondServiceError(c, err, graphSaveFailureMessage(err))
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func graphFetchFailureMessage(err error) string {
	if apierr.CodeOf(err) == services.CodeResolveUser {
		return "Failed to fetch user"
	}
	return "Failed to fetch graph data"
}

func graphSaveFailureMessage(err error) string {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		switch ae.Code {
		case services.CodeResolveUser:
			return "Failed to fetch user"
		case services.CodeCreateUser:
			return "Failed to create user"
		case services.CodeOverwriteGraph:
			return "Failed to overwrite existing graph data"
		case services.CodeInsertGraph:
			return "Failed to save graph data"
		}
	}
	return "Failed to save graph data"
}
