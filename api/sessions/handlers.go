package sessions

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/surfscribe/annotator-api/api/types"
	"github.com/surfscribe/annotator-api/internal/annotation"
)

// CreateSessionRequest is the body for creating a session
type CreateSessionRequest struct {
	VideoFile string `json:"video_file" binding:"required"`
}

// CreateSession creates an annotation session for a video file
// @Summary      Create annotation session
// @Description  Probe a video file and create an empty annotation session for it
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        session body CreateSessionRequest true "Video file to annotate"
// @Success      201 {object} types.SessionResponse "Created session"
// @Failure      400 {object} types.ErrorResponse "Invalid request or unsupported video"
// @Failure      404 {object} types.ErrorResponse "Video file not found"
// @Failure      409 {object} types.ErrorResponse "Session already exists for video"
// @Router       /api/v1/sessions [post]
func CreateSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		session, err := deps.SessionService.CreateSession(c.Request.Context(), req.VideoFile)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.SessionFromLive(session))
	}
}

// ListSessions lists all annotation sessions
// @Summary      List annotation sessions
// @Description  Retrieve every stored annotation session
// @Tags         sessions
// @Produce      json
// @Success      200 {object} types.SessionsResponse "Sessions"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/sessions [get]
func ListSessions(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		stored, err := deps.SessionService.ListSessions(c.Request.Context())
		if err != nil {
			types.SendInternalError(c, "Failed to list sessions")
			return
		}

		response := types.SessionsResponse{Sessions: []types.SessionResponse{}}
		for i := range stored {
			response.Sessions = append(response.Sessions, types.SessionFromModel(&stored[i]))
		}
		response.Count = len(response.Sessions)

		types.SendSuccess(c, response)
	}
}

// GetSession retrieves a session with its surfer annotations
// @Summary      Get annotation session
// @Description  Retrieve a session and all of its surfer annotations by UUID
// @Tags         sessions
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Success      200 {object} types.SessionDetailResponse "Session detail"
// @Failure      404 {object} types.ErrorResponse "Session not found"
// @Router       /api/v1/sessions/{uuid} [get]
func GetSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.SessionService.GetSession(c.Request.Context(), c.Param("uuid"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.SessionDetailFromLive(session))
	}
}

// DeleteSession removes a session and its annotations
// @Summary      Delete annotation session
// @Description  Delete a session and all of its surfer annotations
// @Tags         sessions
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Success      200 {object} map[string]string "Deleted"
// @Failure      404 {object} types.ErrorResponse "Session not found"
// @Router       /api/v1/sessions/{uuid} [delete]
func DeleteSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		uuid := c.Param("uuid")
		if err := deps.SessionService.DeleteSession(c.Request.Context(), uuid); err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, gin.H{"status": types.StatusOK, "uuid": uuid})
	}
}

// GetStatistics computes ride statistics for a session
// @Summary      Session statistics
// @Description  Completion rate, ride duration aggregates, and quality distribution
// @Tags         sessions
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Success      200 {object} annotation.Statistics "Statistics"
// @Failure      404 {object} types.ErrorResponse "Session not found"
// @Router       /api/v1/sessions/{uuid}/statistics [get]
func GetStatistics(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := deps.SessionService.Statistics(c.Request.Context(), c.Param("uuid"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, stats)
	}
}

// ExportSession serializes a session as JSON or CSV
// @Summary      Export session annotations
// @Description  Download the session's annotations as a JSON document or CSV rows
// @Tags         sessions
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        format query string false "Export format: json or csv" default(json)
// @Success      200 {string} string "Exported annotations"
// @Failure      400 {object} types.ErrorResponse "Unknown format"
// @Failure      404 {object} types.ErrorResponse "Session not found"
// @Router       /api/v1/sessions/{uuid}/export [get]
func ExportSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		uuid := c.Param("uuid")
		format := strings.ToLower(c.DefaultQuery("format", "json"))

		session, err := deps.SessionService.GetSession(c.Request.Context(), uuid)
		if err != nil {
			types.SendError(c, err)
			return
		}

		var buf bytes.Buffer
		switch format {
		case "json":
			if err := deps.SessionService.ExportJSON(c.Request.Context(), uuid, &buf); err != nil {
				types.SendError(c, err)
				return
			}
			filename := annotation.Filename(session.VideoFile())
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			c.Data(http.StatusOK, "application/json", buf.Bytes())
		case "csv":
			if err := deps.SessionService.ExportCSV(c.Request.Context(), uuid, &buf); err != nil {
				types.SendError(c, err)
				return
			}
			filename := strings.TrimSuffix(annotation.Filename(session.VideoFile()), ".json") + ".csv"
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			c.Data(http.StatusOK, "text/csv", buf.Bytes())
		default:
			types.SendBadRequest(c, "Unknown export format: "+format)
		}
	}
}

// ImportSession validates and stores an annotation document
// @Summary      Import session annotations
// @Description  Validate a previously exported JSON document and store it as a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        document body object true "Annotation document"
// @Success      201 {object} types.SessionDetailResponse "Imported session"
// @Failure      422 {object} types.ErrorResponse "Corrupt annotation data"
// @Router       /api/v1/sessions/import [post]
func ImportSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.SessionService.ImportSession(c.Request.Context(), c.Request.Body)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.SessionDetailFromLive(session))
	}
}

// GetFrame extracts a video frame at a timestamp
// @Summary      Extract video frame
// @Description  Return a JPEG frame from the session's video at the given timestamp
// @Tags         sessions
// @Produce      jpeg
// @Param        uuid path string true "Session UUID"
// @Param        t query number true "Timestamp in seconds"
// @Success      200 {string} binary "JPEG frame"
// @Failure      400 {object} types.ErrorResponse "Timestamp outside the video"
// @Failure      404 {object} types.ErrorResponse "Session not found"
// @Failure      502 {object} types.ErrorResponse "Frame extraction failed"
// @Router       /api/v1/sessions/{uuid}/frame [get]
func GetFrame(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := types.ParseFloatQuery(c, "t")
		if !ok {
			return
		}

		frame, err := deps.SessionService.FrameAt(c.Request.Context(), c.Param("uuid"), t)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.Data(http.StatusOK, "image/jpeg", frame)
	}
}
