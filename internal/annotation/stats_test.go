package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		sess := newTestSession(t)
		stats := sess.Statistics()

		assert.Equal(t, 0, stats.TotalSurfers)
		assert.Equal(t, 0, stats.CompletedSurfers)
		assert.Zero(t, stats.CompletionRate)
		assert.Zero(t, stats.MeanRideDuration)
		assert.Empty(t, stats.QualityCounts)
	})

	t.Run("aggregates complete rides only", func(t *testing.T) {
		sess := newTestSession(t)

		id1, _ := sess.AddSurfer(floatPtr(10.0))
		require.NoError(t, sess.SetEndTime(id1, 22.0)) // 12s
		require.NoError(t, sess.SetQuality(id1, QualityGood))

		id2, _ := sess.AddSurfer(floatPtr(30.0))
		require.NoError(t, sess.SetEndTime(id2, 36.0)) // 6s
		require.NoError(t, sess.SetQuality(id2, QualityGood))

		id3, _ := sess.AddSurfer(floatPtr(50.0)) // start only, not completed
		require.NoError(t, sess.SetQuality(id3, QualityPoor))

		_, err := sess.AddSurfer(nil) // empty
		require.NoError(t, err)

		stats := sess.Statistics()
		assert.Equal(t, 4, stats.TotalSurfers)
		assert.Equal(t, 2, stats.CompletedSurfers)
		assert.InDelta(t, 0.5, stats.CompletionRate, 1e-9)
		assert.InDelta(t, 9.0, stats.MeanRideDuration, 1e-9)
		assert.InDelta(t, 6.0, stats.MinRideDuration, 1e-9)
		assert.InDelta(t, 12.0, stats.MaxRideDuration, 1e-9)
		assert.Equal(t, map[Quality]int{QualityGood: 2, QualityPoor: 1}, stats.QualityCounts)
	})

	t.Run("mean reflects exact endpoints", func(t *testing.T) {
		sess := newTestSession(t)
		id, _ := sess.AddSurfer(nil)
		require.NoError(t, sess.SetStartTime(id, 10.2))
		require.NoError(t, sess.SetEndTime(id, 25.8))

		stats := sess.Statistics()
		assert.InDelta(t, 15.6, stats.MeanRideDuration, 1e-9)
	})

	t.Run("deterministic for a fixed surfer set", func(t *testing.T) {
		sess := newTestSession(t)
		endpoints := [][2]float64{{0.1, 7.3}, {8.4, 19.9}, {20.0, 31.7}, {40.2, 55.5}}
		for _, ep := range endpoints {
			id, _ := sess.AddSurfer(floatPtr(ep[0]))
			require.NoError(t, sess.SetEndTime(id, ep[1]))
		}

		first := sess.Statistics()
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, sess.Statistics())
		}
	})

	t.Run("does not mutate state", func(t *testing.T) {
		sess := newTestSession(t)
		id, _ := sess.AddSurfer(floatPtr(1.0))
		require.NoError(t, sess.SetEndTime(id, 2.0))

		before := sess.Surfers()
		_ = sess.Statistics()
		assert.Equal(t, before, sess.Surfers())
	})
}
