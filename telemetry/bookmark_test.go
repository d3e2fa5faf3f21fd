package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(bs []Bookmark) []BookmarkType {
	out := make([]BookmarkType, len(bs))
	for i, b := range bs {
		out[i] = b.Type
	}
	return out
}

func calm(end float64) WindowStats {
	return WindowStats{WindowEnd: end, Kills: 4, DamageTaken: 10, MinHPFraction: 0.9}
}

func TestBookmarkBossDefeated(t *testing.T) {
	bd := NewBookmarkDetector(5, 0.15, 20)
	s := calm(10)
	s.BossKills = 1
	got := bd.Check(s)
	require.Len(t, got, 1)
	assert.Equal(t, BookmarkBossDefeated, got[0].Type)
	assert.Equal(t, 10.0, got[0].Time)
}

func TestBookmarkNearDeathRearms(t *testing.T) {
	bd := NewBookmarkDetector(5, 0.15, 20)

	low := calm(10)
	low.MinHPFraction = 0.1
	assert.Equal(t, []BookmarkType{BookmarkNearDeath}, types(bd.Check(low)))

	low.WindowEnd = 20
	assert.Empty(t, bd.Check(low), "disarmed until recovery")

	mid := calm(30)
	mid.MinHPFraction = 0.25
	assert.Empty(t, bd.Check(mid), "not recovered past twice the threshold")
	low.WindowEnd = 40
	assert.Empty(t, bd.Check(low))

	assert.Empty(t, bd.Check(calm(50)))
	low.WindowEnd = 60
	assert.Equal(t, []BookmarkType{BookmarkNearDeath}, types(bd.Check(low)))
}

func TestBookmarkDeathIsNotNearDeath(t *testing.T) {
	bd := NewBookmarkDetector(5, 0.15, 20)
	dead := calm(10)
	dead.MinHPFraction = 0
	assert.Empty(t, bd.Check(dead))
}

func TestBookmarkKillStreakNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(5, 0.15, 20)
	streak := calm(0)
	streak.Kills = 30

	assert.Empty(t, bd.Check(streak), "no history yet")

	bd.Reset()
	for i := range 3 {
		assert.Empty(t, bd.Check(calm(float64(i+1)*10)))
	}
	streak.WindowEnd = 40
	assert.Equal(t, []BookmarkType{BookmarkKillStreak}, types(bd.Check(streak)))

	// Below the absolute threshold, even at many times the average.
	small := calm(50)
	small.Kills = 15
	assert.NotContains(t, types(bd.Check(small)), BookmarkKillStreak)
}

func TestBookmarkDamageSpike(t *testing.T) {
	bd := NewBookmarkDetector(5, 0.15, 20)
	for i := range 3 {
		bd.Check(calm(float64(i+1) * 10))
	}
	spike := calm(40)
	spike.DamageTaken = 31
	assert.Equal(t, []BookmarkType{BookmarkDamageSpike}, types(bd.Check(spike)))

	ok := calm(50)
	ok.DamageTaken = 25
	assert.Empty(t, bd.Check(ok))
}
