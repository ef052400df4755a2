package surfers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surfscribe/annotator-api/api/types"
	"github.com/surfscribe/annotator-api/internal/annotation"
)

// AddSurferRequest is the body for adding a surfer annotation
type AddSurferRequest struct {
	StartTime *float64 `json:"start_time"`
}

// TimeRequest carries a single timestamp value
type TimeRequest struct {
	Time *float64 `json:"time" binding:"required"`
}

// BBoxRequest carries a bounding box as [x, y, width, height]
type BBoxRequest struct {
	BBox *annotation.BBox `json:"bbox" binding:"required"`
}

// QualityRequest carries a ride quality rating
type QualityRequest struct {
	Quality string `json:"quality" binding:"required"`
}

// BBoxSampleRequest carries a bounding box keyframe
type BBoxSampleRequest struct {
	Time *float64         `json:"time" binding:"required"`
	BBox *annotation.BBox `json:"bbox" binding:"required"`
}

// AddSurfer adds a surfer annotation to a session
// @Summary      Add surfer annotation
// @Description  Add a surfer to the session, optionally with a ride start time
// @Tags         surfers
// @Accept       json
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        surfer body AddSurferRequest false "Optional start time"
// @Success      201 {object} types.SurferCreatedResponse "Assigned surfer id"
// @Failure      400 {object} types.ErrorResponse "Invalid start time"
// @Failure      404 {object} types.ErrorResponse "Session not found"
// @Router       /api/v1/sessions/{uuid}/surfers [post]
func AddSurfer(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddSurferRequest
		if c.Request.ContentLength > 0 && !types.BindJSONOrError(c, &req) {
			return
		}

		id, err := deps.SessionService.AddSurfer(c.Request.Context(), c.Param("uuid"), req.StartTime)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.SurferCreatedResponse{ID: id})
	}
}

// DeleteSurfer removes a surfer annotation
// @Summary      Delete surfer annotation
// @Description  Remove a surfer annotation from the session; its id is not reused
// @Tags         surfers
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        id path int true "Surfer id"
// @Success      200 {object} map[string]string "Deleted"
// @Failure      404 {object} types.ErrorResponse "Session or surfer not found"
// @Router       /api/v1/sessions/{uuid}/surfers/{id} [delete]
func DeleteSurfer(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseIntParam(c, "id")
		if !ok {
			return
		}

		if err := deps.SessionService.DeleteSurfer(c.Request.Context(), c.Param("uuid"), id); err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, gin.H{"status": types.StatusOK})
	}
}

// SetStartTime sets a surfer's ride start time
// @Summary      Set ride start time
// @Description  Record when the surfer's ride begins; must stay before any recorded end time
// @Tags         surfers
// @Accept       json
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        id path int true "Surfer id"
// @Param        time body TimeRequest true "Timestamp in seconds"
// @Success      200 {object} types.SurferResponse "Updated surfer"
// @Failure      400 {object} types.ErrorResponse "Invalid time"
// @Failure      404 {object} types.ErrorResponse "Session or surfer not found"
// @Router       /api/v1/sessions/{uuid}/surfers/{id}/start [put]
func SetStartTime(deps *types.Dependencies) gin.HandlerFunc {
	return timeSetter(deps, func(deps *types.Dependencies, c *gin.Context, id int, t float64) error {
		return deps.SessionService.SetStartTime(c.Request.Context(), c.Param("uuid"), id, t)
	})
}

// SetEndTime sets a surfer's ride end time
// @Summary      Set ride end time
// @Description  Record when the surfer's ride ends; must stay after any recorded start time
// @Tags         surfers
// @Accept       json
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        id path int true "Surfer id"
// @Param        time body TimeRequest true "Timestamp in seconds"
// @Success      200 {object} types.SurferResponse "Updated surfer"
// @Failure      400 {object} types.ErrorResponse "Invalid time"
// @Failure      404 {object} types.ErrorResponse "Session or surfer not found"
// @Router       /api/v1/sessions/{uuid}/surfers/{id}/end [put]
func SetEndTime(deps *types.Dependencies) gin.HandlerFunc {
	return timeSetter(deps, func(deps *types.Dependencies, c *gin.Context, id int, t float64) error {
		return deps.SessionService.SetEndTime(c.Request.Context(), c.Param("uuid"), id, t)
	})
}

func timeSetter(deps *types.Dependencies, set func(*types.Dependencies, *gin.Context, int, float64) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseIntParam(c, "id")
		if !ok {
			return
		}

		var req TimeRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if err := set(deps, c, id, *req.Time); err != nil {
			types.SendError(c, err)
			return
		}

		sendUpdatedSurfer(deps, c, id)
	}
}

// SetBBox sets a surfer's static bounding box
// @Summary      Set bounding box
// @Description  Record the surfer's location in the frame as [x, y, width, height] pixels
// @Tags         surfers
// @Accept       json
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        id path int true "Surfer id"
// @Param        bbox body BBoxRequest true "Bounding box"
// @Success      200 {object} types.SurferResponse "Updated surfer"
// @Failure      400 {object} types.ErrorResponse "Invalid bounding box"
// @Failure      404 {object} types.ErrorResponse "Session or surfer not found"
// @Router       /api/v1/sessions/{uuid}/surfers/{id}/bbox [put]
func SetBBox(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseIntParam(c, "id")
		if !ok {
			return
		}

		var req BBoxRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if err := deps.SessionService.SetBBox(c.Request.Context(), c.Param("uuid"), id, *req.BBox); err != nil {
			types.SendError(c, err)
			return
		}

		sendUpdatedSurfer(deps, c, id)
	}
}

// SetQuality rates a surfer's ride
// @Summary      Set ride quality
// @Description  Rate the ride as poor, average, good, or excellent
// @Tags         surfers
// @Accept       json
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        id path int true "Surfer id"
// @Param        quality body QualityRequest true "Quality rating"
// @Success      200 {object} types.SurferResponse "Updated surfer"
// @Failure      400 {object} types.ErrorResponse "Unknown quality"
// @Failure      404 {object} types.ErrorResponse "Session or surfer not found"
// @Router       /api/v1/sessions/{uuid}/surfers/{id}/quality [put]
func SetQuality(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseIntParam(c, "id")
		if !ok {
			return
		}

		var req QualityRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		quality, err := annotation.ParseQuality(req.Quality)
		if err != nil {
			types.SendError(c, err)
			return
		}

		if err := deps.SessionService.SetQuality(c.Request.Context(), c.Param("uuid"), id, quality); err != nil {
			types.SendError(c, err)
			return
		}

		sendUpdatedSurfer(deps, c, id)
	}
}

// SetActive marks a surfer as the active annotation target
// @Summary      Set active surfer
// @Description  Mark this surfer as the one currently being annotated; clears any previous active surfer
// @Tags         surfers
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        id path int true "Surfer id"
// @Success      200 {object} types.SurferResponse "Updated surfer"
// @Failure      404 {object} types.ErrorResponse "Session or surfer not found"
// @Router       /api/v1/sessions/{uuid}/surfers/{id}/active [put]
func SetActive(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseIntParam(c, "id")
		if !ok {
			return
		}

		if err := deps.SessionService.SetActive(c.Request.Context(), c.Param("uuid"), id); err != nil {
			types.SendError(c, err)
			return
		}

		sendUpdatedSurfer(deps, c, id)
	}
}

// ClearActive clears the session's active surfer
// @Summary      Clear active surfer
// @Description  No surfer remains marked as the active annotation target
// @Tags         surfers
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Success      200 {object} map[string]string "Cleared"
// @Failure      404 {object} types.ErrorResponse "Session not found"
// @Router       /api/v1/sessions/{uuid}/surfers/active [delete]
func ClearActive(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.SessionService.ClearActive(c.Request.Context(), c.Param("uuid")); err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, gin.H{"status": types.StatusOK})
	}
}

// AddBBoxSample appends a bounding box keyframe
// @Summary      Add bounding box keyframe
// @Description  Append a timestamped bounding box to the surfer's track; times must strictly increase
// @Tags         surfers
// @Accept       json
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        id path int true "Surfer id"
// @Param        sample body BBoxSampleRequest true "Keyframe"
// @Success      201 {object} types.SurferResponse "Updated surfer"
// @Failure      400 {object} types.ErrorResponse "Invalid keyframe"
// @Failure      404 {object} types.ErrorResponse "Session or surfer not found"
// @Router       /api/v1/sessions/{uuid}/surfers/{id}/bbox-samples [post]
func AddBBoxSample(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseIntParam(c, "id")
		if !ok {
			return
		}

		var req BBoxSampleRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if err := deps.SessionService.AddBBoxSample(c.Request.Context(), c.Param("uuid"), id, *req.Time, *req.BBox); err != nil {
			types.SendError(c, err)
			return
		}

		session, err := deps.SessionService.GetSession(c.Request.Context(), c.Param("uuid"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		surfer, err := session.Surfer(id)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendCreated(c, types.SurferFromLive(surfer))
	}
}

// GetBBoxAt returns the interpolated bounding box at a timestamp
// @Summary      Bounding box at timestamp
// @Description  Linearly interpolate the surfer's bounding box between keyframes at the given time
// @Tags         surfers
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        id path int true "Surfer id"
// @Param        t query number true "Timestamp in seconds"
// @Success      200 {object} map[string]interface{} "Interpolated box, null when untracked"
// @Failure      404 {object} types.ErrorResponse "Session or surfer not found"
// @Router       /api/v1/sessions/{uuid}/surfers/{id}/bbox [get]
func GetBBoxAt(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseIntParam(c, "id")
		if !ok {
			return
		}
		t, ok := types.ParseFloatQuery(c, "t")
		if !ok {
			return
		}

		box, err := deps.SessionService.BoxAt(c.Request.Context(), c.Param("uuid"), id, t)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "time": t, "bbox": box})
	}
}

// GetSurfersAt lists the surfers riding at a timestamp
// @Summary      Surfers at timestamp
// @Description  Return the surfers whose annotated rides span the given time
// @Tags         surfers
// @Produce      json
// @Param        uuid path string true "Session UUID"
// @Param        t query number true "Timestamp in seconds"
// @Success      200 {object} map[string]interface{} "Surfers on the wave"
// @Failure      404 {object} types.ErrorResponse "Session not found"
// @Router       /api/v1/sessions/{uuid}/surfers/at [get]
func GetSurfersAt(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := types.ParseFloatQuery(c, "t")
		if !ok {
			return
		}

		riding, err := deps.SessionService.SurfersAt(c.Request.Context(), c.Param("uuid"), t)
		if err != nil {
			types.SendError(c, err)
			return
		}

		surfers := []types.SurferResponse{}
		for _, surfer := range riding {
			surfers = append(surfers, types.SurferFromLive(surfer))
		}
		c.JSON(http.StatusOK, gin.H{"time": t, "surfers": surfers, "count": len(surfers)})
	}
}

func sendUpdatedSurfer(deps *types.Dependencies, c *gin.Context, id int) {
	session, err := deps.SessionService.GetSession(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		types.SendError(c, err)
		return
	}
	surfer, err := session.Surfer(id)
	if err != nil {
		types.SendError(c, err)
		return
	}
	types.SendSuccess(c, types.SurferFromLive(surfer))
}
