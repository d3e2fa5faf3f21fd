package game

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/systems"
)

const frame = 1.0 / 60

// recorder counts events delivered to the external sink.
type recorder struct {
	systems.NopEvents
	kills      []components.Enemy
	explosions int
	playerHits []float64
}

func (r *recorder) EnemyKilled(e *components.Enemy, _ r2.Vec) {
	r.kills = append(r.kills, *e)
}

func (r *recorder) Explosion(r2.Vec, float64, config.RGB) {
	r.explosions++
}

func (r *recorder) PlayerDamaged(amount float64, _ string) {
	r.playerHits = append(r.playerHits, amount)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newSandbox(t *testing.T) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := NewSession(config.Default(), Options{Seed: 7, Logger: quietLogger(), Events: rec, Sandbox: true})
	require.NoError(t, err)
	return s, rec
}

// place spawns one enemy at offset from the player and returns its view.
func place(t *testing.T, s *Session, archetype string, level int, offset r2.Vec) *components.Actor {
	t.Helper()
	bp, err := s.factory.Enemy(archetype, systems.SpawnParams{
		Tier:           components.TierNormal,
		Level:          level,
		DifficultyMult: 1,
		Pos:            r2.Add(s.player.Pos, offset),
		Now:            s.clock,
	})
	require.NoError(t, err)
	s.blueprints = append(s.blueprints, bp)
	s.flush(&s.tc)
	for _, a := range s.tc.Enemies {
		if a.Enemy.ID == bp.Enemy.ID {
			return a
		}
	}
	t.Fatalf("enemy %d not in view", bp.Enemy.ID)
	return nil
}

func TestScoutKilledByOneShot(t *testing.T) {
	s, rec := newSandbox(t)
	scout := place(t, s, "scout", 1, r2.Vec{X: 200})
	require.Equal(t, 1, s.Alive())
	id := scout.Enemy.ID

	s.out.Projectiles = append(s.out.Projectiles, components.ProjectileSpawn{
		Pos: scout.Pos.Vec,
		Projectile: components.Projectile{
			Owner:    components.OwnerPlayer,
			Damage:   scout.Health.MaxHP,
			Radius:   6,
			Duration: 2,
		},
	})
	s.flush(&s.tc)

	s.Step(Input{}, frame)
	require.Len(t, rec.kills, 1)
	assert.Equal(t, id, rec.kills[0].ID)
	assert.Equal(t, 1, rec.explosions)
	assert.Equal(t, 1, s.Player().Kills)

	s.Step(Input{}, frame)
	assert.Len(t, rec.kills, 1, "death is emitted once")
	assert.Zero(t, s.Alive())
	for _, e := range s.Snapshot().Enemies {
		assert.NotEqual(t, id, e.ID)
	}
	assert.NotEmpty(t, s.Snapshot().Pickups, "xp gem dropped")
}

func TestKamikazeContactBlast(t *testing.T) {
	s, rec := newSandbox(t)
	k := place(t, s, "kamikaze", 1, r2.Vec{X: 10})
	assert.InDelta(t, 22, systems.KamikazeBlastDamage(k.Enemy), 1e-9)

	s.Step(Input{}, frame)
	require.Len(t, rec.kills, 1)
	require.Len(t, rec.playerHits, 1)
	assert.InDelta(t, 22, rec.playerHits[0], 1e-9)
	assert.InDelta(t, 78, s.Player().Health.HP, 1e-9)
	assert.Equal(t, 2, rec.explosions, "death plus blast")
}

func TestKamikazeBurstBlastsAllLand(t *testing.T) {
	s, rec := newSandbox(t)
	place(t, s, "kamikaze", 1, r2.Vec{X: 10})
	place(t, s, "kamikaze", 1, r2.Vec{X: -10})

	s.Step(Input{}, frame)
	require.Len(t, rec.kills, 2)
	assert.Equal(t, []float64{22, 22}, rec.playerHits)
	assert.InDelta(t, 56, s.Player().Health.HP, 1e-9)
}

func TestKamikazeBlastInsideHurtWindow(t *testing.T) {
	s, rec := newSandbox(t)
	place(t, s, "scout", 1, r2.Vec{X: 10})
	k := place(t, s, "kamikaze", 1, r2.Vec{X: -60})
	k.Health.HP = 0

	s.Step(Input{}, frame)
	require.Len(t, rec.playerHits, 2, "contact hit then blast")
	assert.InDelta(t, 22, rec.playerHits[1], 1e-9)
	assert.InDelta(t, 100-rec.playerHits[0]-22, s.Player().Health.HP, 1e-9)
}

func TestKamikazeBlastOutOfRange(t *testing.T) {
	s, rec := newSandbox(t)
	k := place(t, s, "kamikaze", 1, r2.Vec{X: 140})
	k.Health.HP = 0

	s.Step(Input{}, frame)
	require.Len(t, rec.kills, 1)
	assert.Empty(t, rec.playerHits)
	assert.Equal(t, 100.0, s.Player().Health.HP)
}

func TestPlayerDeathEndsSession(t *testing.T) {
	s, _ := newSandbox(t)
	s.player.Health.HP = 5
	place(t, s, "kamikaze", 1, r2.Vec{X: 10})

	s.Step(Input{}, frame)
	require.True(t, s.Over())
	at := s.Time()
	s.Step(Input{}, frame)
	assert.Equal(t, at, s.Time())
	assert.True(t, s.Snapshot().Over)
}

func TestStepClampsDT(t *testing.T) {
	s, _ := newSandbox(t)
	s.Step(Input{}, 2)
	assert.InDelta(t, s.cfg.Sim.MaxDT, s.Time(), 1e-12)
	s.Step(Input{}, -1)
	assert.InDelta(t, s.cfg.Sim.MaxDT, s.Time(), 1e-12)
}

func TestSummon(t *testing.T) {
	s, _ := newSandbox(t)
	s.Step(Input{Summon: "dreadnought"}, frame)
	require.NotZero(t, s.Alive())
	var bosses []string
	for _, e := range s.Snapshot().Enemies {
		if e.Boss {
			bosses = append(bosses, e.Phase)
		}
	}
	assert.Equal(t, []string{"bombard"}, bosses)

	assert.ErrorIs(t, s.summon("no-such-thing"), systems.ErrUnknownArchetype)
	s.Step(Input{Summon: "no-such-thing"}, frame)
	assert.False(t, s.Over())
}

func TestLaserClearedWhenConsumed(t *testing.T) {
	s, _ := newSandbox(t)
	s.player.LaserID = 99
	s.out.Projectiles = append(s.out.Projectiles, components.ProjectileSpawn{
		Pos:        s.player.Pos,
		Projectile: components.Projectile{ID: 99, Effect: components.EffectLaser},
	})
	s.flush(&s.tc)
	s.cleanup()
	assert.Equal(t, uint32(99), s.player.LaserID)

	s.tc.Shots[0].P.Dead = true
	s.cleanup()
	assert.Zero(t, s.player.LaserID)
	assert.Empty(t, s.tc.Shots)
}

func TestApplyUpgrade(t *testing.T) {
	s, _ := newSandbox(t)
	assert.False(t, s.ApplyUpgrade(UpgradeDamage), "nothing pending")

	s.player.PendingLevels = 2
	s.Step(Input{Upgrade: UpgradeDamage}, frame)
	assert.InDelta(t, 1.1, s.player.Stats.DamageMult, 1e-9)
	assert.Equal(t, 2, s.player.Level)
	assert.Equal(t, 1, s.player.PendingLevels)

	require.True(t, s.ApplyUpgrade(UpgradeVitality))
	assert.Equal(t, 120.0, s.player.Health.MaxHP)
	assert.Equal(t, 120.0, s.player.Health.HP)
	assert.False(t, s.ApplyUpgrade(UpgradeNone))
	assert.Len(t, Upgrades(), int(upgradeCount)-1)
}

func TestReset(t *testing.T) {
	s, _ := newSandbox(t)
	place(t, s, "scout", 1, r2.Vec{X: 300})
	place(t, s, "brute", 2, r2.Vec{Y: 300})
	for range 30 {
		s.Step(Input{Move: r2.Vec{X: 1}, Fire: true}, frame)
	}
	require.NotZero(t, s.Alive())

	s.Reset()
	assert.Zero(t, s.Alive())
	assert.Zero(t, s.Time())
	snap := s.Snapshot()
	assert.Empty(t, snap.Enemies)
	assert.Empty(t, snap.Projectiles)
	assert.Empty(t, snap.Pickups)
	assert.Equal(t, s.cfg.World.Size/2, snap.Player.X)
	assert.Equal(t, 100.0, snap.Player.HP)
}

func TestDeterministicReplay(t *testing.T) {
	run := func(s *Session) {
		ap := NewAutopilot()
		for range 1200 {
			s.Step(ap.Input(s), frame)
		}
	}
	newScheduled := func() *Session {
		s, err := NewSession(config.Default(), Options{Seed: 11, Logger: quietLogger()})
		require.NoError(t, err)
		return s
	}

	a, b := newScheduled(), newScheduled()
	run(a)
	run(b)
	sa, sb := a.Snapshot(), b.Snapshot()
	require.NotEmpty(t, sa.Enemies, "scheduler spawned")
	assert.Equal(t, sa.Player, sb.Player)
	assert.Equal(t, sa.Enemies, sb.Enemies)

	a.Reset()
	run(a)
	assert.Equal(t, sb.Player, a.Snapshot().Player, "reset replays the same session")
}

func TestAutopilotAimsAndFlees(t *testing.T) {
	s, _ := newSandbox(t)
	place(t, s, "brute", 1, r2.Vec{X: 100})

	in := NewAutopilot().Input(s)
	assert.True(t, in.Fire)
	assert.InDelta(t, 1, in.Aim.X, 1e-9)
	assert.Less(t, in.Move.X, 0.0, "moves away from the threat")
}

func TestRunHeadlessWritesOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.StatsWindow = 5
	dir := t.TempDir()

	res, err := RunHeadless(context.Background(), cfg, Options{Seed: 3, Logger: quietLogger(), OutputDir: dir}, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Seed)
	if !res.Died {
		assert.InDelta(t, 11, res.Survived, 0.05)
		assert.Len(t, res.Windows, 3)
	}

	runs, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	for _, name := range []string{"combat.csv", "perf.csv", "bookmarks.csv", "config.yaml"} {
		assert.FileExists(t, filepath.Join(dir, runs[0].Name(), name))
	}
}

func TestRunBatch(t *testing.T) {
	ctx := context.Background()
	results, err := RunBatch(ctx, config.Default(), []int64{5, 6, 5}, 4, 2, quietLogger())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []int64{5, 6, 5}, []int64{results[0].Seed, results[1].Seed, results[2].Seed})
	assert.Equal(t, results[0].Kills, results[2].Kills)
	assert.Equal(t, results[0].Score, results[2].Score)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = RunBatch(cancelled, config.Default(), []int64{1}, 4, 1, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
