package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ImportJSON rebuilds a session from a previously exported document. Every
// field is re-validated with the same rules the mutating setters apply, and
// the import stops at the first violation, reporting the offending record
// and field. Records are never silently coerced or skipped.
func ImportJSON(r io.Reader) (*Session, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, corruptError("", nil, fmt.Sprintf("malformed JSON: %v", err))
	}
	return FromDocument(&doc)
}

// FromDocument validates an export document and rebuilds the session it
// describes. The returned session gets a fresh UUID.
func FromDocument(doc *Document) (*Session, error) {
	if doc.VideoFile == "" {
		return nil, corruptError("video_file", nil, "is required")
	}
	if doc.Duration <= 0 {
		return nil, corruptError("duration", doc.Duration, "must be positive")
	}
	if doc.FPS <= 0 {
		return nil, corruptError("fps", doc.FPS, "must be positive")
	}
	if doc.FrameWidth < 0 || doc.FrameHeight < 0 {
		return nil, corruptError("frame_width", fmt.Sprintf("%dx%d", doc.FrameWidth, doc.FrameHeight),
			"frame dimensions must not be negative")
	}

	meta := Metadata{
		Duration:    doc.Duration,
		FPS:         doc.FPS,
		FrameWidth:  doc.FrameWidth,
		FrameHeight: doc.FrameHeight,
	}
	// Probe session used only for its validation rules.
	checker, err := newSession(doc.VideoFile, meta)
	if err != nil {
		return nil, corruptError("", nil, err.Error())
	}

	created, err := parseDocTime(doc.SessionCreated)
	if err != nil {
		return nil, corruptError("session_created", doc.SessionCreated, err.Error())
	}
	modified, err := parseDocTime(doc.SessionModified)
	if err != nil {
		return nil, corruptError("session_modified", doc.SessionModified, err.Error())
	}

	seen := make(map[int]bool, len(doc.Surfers))
	activeSeen := false
	surfers := make([]*Surfer, 0, len(doc.Surfers))

	for i, rec := range doc.Surfers {
		field := func(name string) string { return fmt.Sprintf("surfers[%d].%s", i, name) }

		if rec.ID <= 0 {
			return nil, corruptError(field("id"), rec.ID, "must be a positive integer")
		}
		if seen[rec.ID] {
			return nil, corruptError(field("id"), rec.ID, "duplicate surfer id")
		}
		seen[rec.ID] = true

		surfer := &Surfer{ID: rec.ID, Extra: rec.Extra}

		if rec.StartTime != nil {
			if err := checker.checkTime(0, "start_time", *rec.StartTime); err != nil {
				return nil, corruptError(field("start_time"), *rec.StartTime, validationReason(err))
			}
			v := *rec.StartTime
			surfer.StartTime = &v
		}
		if rec.EndTime != nil {
			if err := checker.checkTime(0, "end_time", *rec.EndTime); err != nil {
				return nil, corruptError(field("end_time"), *rec.EndTime, validationReason(err))
			}
			if rec.StartTime != nil && *rec.EndTime <= *rec.StartTime {
				return nil, corruptError(field("end_time"), *rec.EndTime,
					fmt.Sprintf("must be greater than start time %g", *rec.StartTime))
			}
			v := *rec.EndTime
			surfer.EndTime = &v
		}
		if rec.BBox != nil {
			if err := checker.checkBBox(0, *rec.BBox); err != nil {
				return nil, corruptError(field("bbox"), *rec.BBox, validationReason(err))
			}
			v := *rec.BBox
			surfer.BBox = &v
		}
		if rec.Quality != nil {
			q, err := ParseQuality(*rec.Quality)
			if err != nil {
				return nil, corruptError(field("quality"), *rec.Quality, validationReason(err))
			}
			surfer.Quality = q
		}

		surferCreated, err := parseDocTime(rec.Created)
		if err != nil {
			return nil, corruptError(field("created"), rec.Created, err.Error())
		}
		if surferCreated.IsZero() {
			surferCreated = time.Now().UTC()
		}
		surfer.Created = surferCreated

		if rec.Active {
			if activeSeen {
				return nil, corruptError(field("active"), true, "more than one surfer marked active")
			}
			activeSeen = true
			surfer.Active = true
		}

		prev := -1.0
		for j, sample := range rec.History {
			hfield := fmt.Sprintf("surfers[%d].bbox_history[%d]", i, j)
			if err := checker.checkTime(0, "time", sample.Time); err != nil {
				return nil, corruptError(hfield+".time", sample.Time, validationReason(err))
			}
			if sample.Time <= prev {
				return nil, corruptError(hfield+".time", sample.Time,
					"sample times must be strictly increasing")
			}
			prev = sample.Time
			if err := checker.checkBBox(0, sample.Box); err != nil {
				return nil, corruptError(hfield+".bbox", sample.Box, validationReason(err))
			}
		}
		if len(rec.History) > 0 {
			surfer.History = make([]BBoxSample, len(rec.History))
			copy(surfer.History, rec.History)
		}

		surfers = append(surfers, surfer)
	}

	sess, err := Restore("", doc.VideoFile, meta, created, modified, surfers, 0)
	if err != nil {
		return nil, corruptError("surfers", nil, err.Error())
	}
	return sess, nil
}

// validationReason extracts the human reason from a setter validation error
// so import failures read the same as interactive ones.
func validationReason(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Reason != "" {
		return verr.Reason
	}
	return err.Error()
}

// parseDocTime accepts RFC 3339 timestamps with or without a zone offset;
// older exports wrote naive local timestamps. Empty input yields a zero time.
func parseDocTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999999", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 timestamp")
}
