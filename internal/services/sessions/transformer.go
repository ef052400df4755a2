package sessions

import (
	"encoding/json"
	"fmt"

	"github.com/surfscribe/annotator-api/internal/annotation"
	"github.com/surfscribe/annotator-api/internal/models"
)

// modelFromSession snapshots a live session into its database representation.
// The returned model carries no gorm IDs; the repository matches rows by the
// session UUID when saving.
func modelFromSession(s *annotation.Session) (*models.Session, error) {
	meta := s.Metadata()
	m := &models.Session{
		UUID:            s.UUID(),
		VideoFile:       s.VideoFile(),
		Duration:        meta.Duration,
		FPS:             meta.FPS,
		FrameWidth:      meta.FrameWidth,
		FrameHeight:     meta.FrameHeight,
		NextSurferID:    s.NextID(),
		SessionCreated:  s.Created(),
		SessionModified: s.Modified(),
	}

	for _, surfer := range s.Surfers() {
		row := models.Surfer{
			SurferID:    surfer.ID,
			StartTime:   surfer.StartTime,
			EndTime:     surfer.EndTime,
			Quality:     string(surfer.Quality),
			Active:      surfer.Active,
			CreatedTime: surfer.Created,
		}
		if surfer.BBox != nil {
			row.BBoxX = &surfer.BBox.X
			row.BBoxY = &surfer.BBox.Y
			row.BBoxWidth = &surfer.BBox.Width
			row.BBoxHeight = &surfer.BBox.Height
		}
		if len(surfer.History) > 0 {
			data, err := json.Marshal(surfer.History)
			if err != nil {
				return nil, fmt.Errorf("encoding bbox history for surfer %d: %w", surfer.ID, err)
			}
			row.HistoryJSON = string(data)
		}
		if len(surfer.Extra) > 0 {
			data, err := json.Marshal(surfer.Extra)
			if err != nil {
				return nil, fmt.Errorf("encoding extra fields for surfer %d: %w", surfer.ID, err)
			}
			row.ExtraJSON = string(data)
		}
		m.Surfers = append(m.Surfers, row)
	}

	return m, nil
}

// sessionFromModel rebuilds a live session from its database representation
func sessionFromModel(m *models.Session) (*annotation.Session, error) {
	surfers := make([]*annotation.Surfer, 0, len(m.Surfers))
	for _, row := range m.Surfers {
		surfer := &annotation.Surfer{
			ID:        row.SurferID,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Quality:   annotation.Quality(row.Quality),
			Active:    row.Active,
			Created:   row.CreatedTime,
		}
		if row.BBoxX != nil && row.BBoxY != nil && row.BBoxWidth != nil && row.BBoxHeight != nil {
			surfer.BBox = &annotation.BBox{
				X:      *row.BBoxX,
				Y:      *row.BBoxY,
				Width:  *row.BBoxWidth,
				Height: *row.BBoxHeight,
			}
		}
		if row.HistoryJSON != "" {
			if err := json.Unmarshal([]byte(row.HistoryJSON), &surfer.History); err != nil {
				return nil, fmt.Errorf("decoding bbox history for surfer %d: %w", row.SurferID, err)
			}
		}
		if row.ExtraJSON != "" {
			if err := json.Unmarshal([]byte(row.ExtraJSON), &surfer.Extra); err != nil {
				return nil, fmt.Errorf("decoding extra fields for surfer %d: %w", row.SurferID, err)
			}
		}
		surfers = append(surfers, surfer)
	}

	meta := annotation.Metadata{
		Duration:    m.Duration,
		FPS:         m.FPS,
		FrameWidth:  m.FrameWidth,
		FrameHeight: m.FrameHeight,
	}

	return annotation.Restore(m.UUID, m.VideoFile, meta, m.SessionCreated, m.SessionModified, surfers, m.NextSurferID)
}
