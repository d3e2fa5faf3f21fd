package inspector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/arena/telemetry"
)

func TestPick(t *testing.T) {
	enemies := []telemetry.EnemyState{
		{ID: 1, X: 100, Y: 100, Radius: 12},
		{ID: 2, X: 120, Y: 100, Radius: 12},
		{ID: 3, X: 400, Y: 400, Radius: 60},
	}
	tests := []struct {
		name   string
		x, y   float64
		want   uint32
		picked bool
	}{
		{"closest center wins", 112, 100, 2, true},
		{"slack", 100, 117, 1, true},
		{"large body", 450, 420, 3, true},
		{"miss", 250, 250, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Pick(enemies, tt.x, tt.y)
			assert.Equal(t, tt.picked, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestLookupDeselectsRemovedEnemy(t *testing.T) {
	ins := NewInspector(1280)
	ins.selected, ins.hasSelected = 2, true

	snap := &telemetry.Snapshot{Enemies: []telemetry.EnemyState{{ID: 2}}}
	assert.NotNil(t, ins.lookup(snap))

	snap.Enemies = nil
	assert.Nil(t, ins.lookup(snap))
	_, ok := ins.Selected()
	assert.False(t, ok)
}
