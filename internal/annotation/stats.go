package annotation

// Statistics are derived read-only aggregates over a session's surfers.
// Duration figures cover only surfers with both endpoints set.
type Statistics struct {
	TotalSurfers     int             `json:"total_surfers"`
	CompletedSurfers int             `json:"completed_surfers"`
	CompletionRate   float64         `json:"completion_rate"`
	MeanRideDuration float64         `json:"avg_ride_duration"`
	MinRideDuration  float64         `json:"min_ride_duration"`
	MaxRideDuration  float64         `json:"max_ride_duration"`
	QualityCounts    map[Quality]int `json:"quality_distribution"`
}

// Statistics computes session aggregates without mutating state. Durations
// are summed in insertion order so results are deterministic for a fixed
// surfer set.
func (s *Session) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{
		TotalSurfers:  len(s.order),
		QualityCounts: make(map[Quality]int),
	}

	var sum float64
	for _, id := range s.order {
		surfer := s.surfers[id]
		if surfer.Quality != "" {
			stats.QualityCounts[surfer.Quality]++
		}
		d := surfer.Duration()
		if d == nil {
			continue
		}
		stats.CompletedSurfers++
		sum += *d
		if stats.CompletedSurfers == 1 {
			stats.MinRideDuration = *d
			stats.MaxRideDuration = *d
			continue
		}
		if *d < stats.MinRideDuration {
			stats.MinRideDuration = *d
		}
		if *d > stats.MaxRideDuration {
			stats.MaxRideDuration = *d
		}
	}

	if stats.CompletedSurfers > 0 {
		stats.MeanRideDuration = sum / float64(stats.CompletedSurfers)
	}
	if stats.TotalSurfers > 0 {
		stats.CompletionRate = float64(stats.CompletedSurfers) / float64(stats.TotalSurfers)
	}
	return stats
}
