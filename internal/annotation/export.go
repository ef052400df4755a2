package annotation

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvHeader is the fixed CSV column set. Missing fields become empty cells,
// never omitted columns.
var csvHeader = []string{
	"video_file", "surfer_id", "start_time", "end_time", "duration",
	"bbox_x", "bbox_y", "bbox_w", "bbox_h", "quality", "created",
}

// Document is the canonical JSON export schema for a session. Every surfer
// is included regardless of completeness; unset fields serialize as null.
type Document struct {
	VideoFile       string         `json:"video_file"`
	Duration        float64        `json:"duration"`
	FPS             float64        `json:"fps"`
	FrameWidth      int            `json:"frame_width,omitempty"`
	FrameHeight     int            `json:"frame_height,omitempty"`
	SessionCreated  string         `json:"session_created,omitempty"`
	SessionModified string         `json:"session_modified,omitempty"`
	SurferCount     int            `json:"surfer_count"`
	Surfers         []SurferRecord `json:"surfers"`
}

// SurferRecord is one surfer entry in an export document. Unknown fields
// from imported documents are carried in Extra and re-emitted on export.
type SurferRecord struct {
	ID        int          `json:"id"`
	StartTime *float64     `json:"start_time"`
	EndTime   *float64     `json:"end_time"`
	Duration  *float64     `json:"duration"`
	BBox      *BBox        `json:"bbox"`
	Quality   *string      `json:"quality"`
	Created   string       `json:"created"`
	Active    bool         `json:"active,omitempty"`
	History   []BBoxSample `json:"bbox_history,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownSurferFields are the strictly validated record keys; everything else
// is preserved verbatim under Extra.
var knownSurferFields = map[string]bool{
	"id": true, "start_time": true, "end_time": true, "duration": true,
	"bbox": true, "quality": true, "created": true, "active": true,
	"bbox_history": true,
}

// surferRecordAlias avoids marshal recursion.
type surferRecordAlias SurferRecord

// MarshalJSON emits the known fields plus any preserved unknown ones.
func (r SurferRecord) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(surferRecordAlias(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		if !knownSurferFields[k] {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the known fields strictly and stores the rest in
// Extra so minor schema drift survives a round trip.
func (r *SurferRecord) UnmarshalJSON(data []byte) error {
	var alias surferRecordAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if knownSurferFields[k] {
			delete(raw, k)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}

	*r = SurferRecord(alias)
	r.Extra = raw
	return nil
}

// Document builds a consistent snapshot of the session. The read lock is
// held for the whole build so a concurrent mutation cannot tear the result.
func (s *Session) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := &Document{
		VideoFile:       s.videoFile,
		Duration:        s.meta.Duration,
		FPS:             s.meta.FPS,
		FrameWidth:      s.meta.FrameWidth,
		FrameHeight:     s.meta.FrameHeight,
		SessionCreated:  s.created.Format(time.RFC3339Nano),
		SessionModified: s.modified.Format(time.RFC3339Nano),
		SurferCount:     len(s.order),
		Surfers:         make([]SurferRecord, 0, len(s.order)),
	}

	for _, id := range s.order {
		doc.Surfers = append(doc.Surfers, surferToRecord(s.surfers[id]))
	}
	return doc
}

func surferToRecord(surfer *Surfer) SurferRecord {
	rec := SurferRecord{
		ID:        surfer.ID,
		StartTime: surfer.StartTime,
		EndTime:   surfer.EndTime,
		Duration:  surfer.Duration(),
		BBox:      surfer.BBox,
		Created:   surfer.Created.Format(time.RFC3339Nano),
		Active:    surfer.Active,
	}
	if surfer.Quality != "" {
		q := string(surfer.Quality)
		rec.Quality = &q
	}
	if len(surfer.History) > 0 {
		rec.History = make([]BBoxSample, len(surfer.History))
		copy(rec.History, surfer.History)
	}
	if len(surfer.Extra) > 0 {
		rec.Extra = make(map[string]json.RawMessage, len(surfer.Extra))
		for k, v := range surfer.Extra {
			rec.Extra[k] = v
		}
	}
	return rec
}

// ExportJSON writes the session as an indented JSON document.
func (s *Session) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Document()); err != nil {
		return fmt.Errorf("encoding annotation document: %w", err)
	}
	return nil
}

// ExportCSV writes one row per surfer with the fixed column set.
func (s *Session) ExportCSV(w io.Writer) error {
	doc := s.Document()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, rec := range doc.Surfers {
		row := []string{
			doc.VideoFile,
			strconv.Itoa(rec.ID),
			formatFloatCell(rec.StartTime),
			formatFloatCell(rec.EndTime),
			formatFloatCell(rec.Duration),
			"", "", "", "",
			"",
			rec.Created,
		}
		if rec.BBox != nil {
			row[5] = formatFloat(rec.BBox.X)
			row[6] = formatFloat(rec.BBox.Y)
			row[7] = formatFloat(rec.BBox.Width)
			row[8] = formatFloat(rec.BBox.Height)
		}
		if rec.Quality != nil {
			row[9] = *rec.Quality
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for surfer %d: %w", rec.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
