package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()
	snap := &Snapshot{
		Version:   SnapshotVersion,
		RunID:     "run-1",
		Seed:      42,
		WorldSize: 4000,
		GameTime:  93.5,
		Player:    PlayerState{X: 10, Y: 20, HP: 40, MaxHP: 100, Level: 3},
		Enemies: []EnemyState{
			{ID: 7, Archetype: "dreadnought", Tier: "elite", Boss: true, Phase: "enraged", HP: 900},
		},
		Recent:   []Event{{Type: EventBossPhase, Time: 90, Label: "dreadnought:enraged"}},
		Bookmark: &Bookmark{Type: BookmarkNearDeath, Time: 93.5},
	}

	path, err := SaveSnapshot(snap, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_near_death.json"))

	back, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, back)
}

func TestLoadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSnapshot(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = LoadSnapshot(bad)
	assert.Error(t, err)

	old := filepath.Join(dir, "old.json")
	require.NoError(t, os.WriteFile(old, []byte(`{"version": 0}`), 0644))
	_, err = LoadSnapshot(old)
	assert.ErrorContains(t, err, "version")
}
