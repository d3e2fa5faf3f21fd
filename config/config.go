// Package config provides configuration loading and access for the arena simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrUnknownDifficulty is returned when difficulty.active names a missing preset.
var ErrUnknownDifficulty = errors.New("unknown difficulty preset")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig               `yaml:"screen"`
	World      WorldConfig                `yaml:"world"`
	Sim        SimConfig                  `yaml:"sim"`
	Player     PlayerConfig               `yaml:"player"`
	Meta       MetaConfig                 `yaml:"meta"`
	Difficulty DifficultyConfig           `yaml:"difficulty"`
	Tiers      map[string]TierConfig      `yaml:"tiers"`
	BossTiers  []BossTierConfig           `yaml:"boss_tiers"`
	Archetypes map[string]ArchetypeConfig `yaml:"archetypes"`
	Bosses     map[string]BossConfig      `yaml:"bosses"`
	Weapons    map[string]WeaponConfig    `yaml:"weapons"`
	Scheduler  SchedulerConfig            `yaml:"scheduler"`
	Collision  CollisionConfig            `yaml:"collision"`
	Pickups    PickupConfig               `yaml:"pickups"`
	Telemetry  TelemetryConfig            `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for graphical mode.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds arena dimensions. The arena is a square.
type WorldConfig struct {
	Size float64 `yaml:"size"`
}

// SimConfig holds tick parameters.
type SimConfig struct {
	MaxDT        float64 `yaml:"max_dt"`         // Frame delta clamp (seconds)
	HeadlessDT   float64 `yaml:"headless_dt"`    // Fixed step used by headless runs
	GridCellSize float64 `yaml:"grid_cell_size"` // Spatial grid cell size
}

// PlayerConfig holds base player stats before meta-progression.
type PlayerConfig struct {
	Radius        float64 `yaml:"radius"`
	MaxHealth     float64 `yaml:"max_health"`
	MaxShield     float64 `yaml:"max_shield"`
	Speed         float64 `yaml:"speed"`
	HurtCooldown  float64 `yaml:"hurt_cooldown"`  // Invulnerability window after a hit
	ContactDamage float64 `yaml:"contact_damage"` // Damage dealt to enemies touching the player
	MagnetRadius  float64 `yaml:"magnet_radius"`
	MagnetSpeed   float64 `yaml:"magnet_speed"`
	PickupRadius  float64 `yaml:"pickup_radius"`
	XPToNext      float64 `yaml:"xp_to_next"`
	XPGrowth      float64 `yaml:"xp_growth"`
	Weapon        string  `yaml:"weapon"`
}

// MetaConfig is the read-only meta-progression snapshot supplied by persistence.
// Each level adds PerLevel (fractional) to the matching stat.
type MetaConfig struct {
	HealthLevel   int     `yaml:"health_level"`
	DamageLevel   int     `yaml:"damage_level"`
	SpeedLevel    int     `yaml:"speed_level"`
	MagnetLevel   int     `yaml:"magnet_level"`
	FireRateLevel int     `yaml:"fire_rate_level"`
	ChainLevel    int     `yaml:"chain_level"` // Extra chain jumps per level
	PierceLevel   int     `yaml:"pierce_level"`
	PerLevel      float64 `yaml:"per_level"`
}

// DifficultyConfig holds difficulty presets and the active selection.
type DifficultyConfig struct {
	Active  string                      `yaml:"active"`
	Presets map[string]DifficultyPreset `yaml:"presets"`
}

// DifficultyPreset scales enemies and loot. The scheduler never reads it directly.
type DifficultyPreset struct {
	Multiplier     float64 `yaml:"multiplier"`      // Enemy health and damage multiplier
	LevelBonus     int     `yaml:"level_bonus"`     // Added to every enemy level
	LootMultiplier float64 `yaml:"loot_multiplier"` // Scales drop chances and XP
}

// TierConfig is one row of the tier modifier table.
type TierConfig struct {
	HealthMult    float64 `yaml:"health_mult"`
	RadiusMult    float64 `yaml:"radius_mult"`
	SpeedMult     float64 `yaml:"speed_mult"`
	Shield        bool    `yaml:"shield"`
	ShieldPercent float64 `yaml:"shield_percent"`
	XPMult        float64 `yaml:"xp_mult"`
	Color         *RGB    `yaml:"color,omitempty"` // Overrides archetype color when set
}

// BossTierConfig maps a wave index range onto a boss tier.
// Rows apply from FromWave onward; the last matching row wins.
type BossTierConfig struct {
	FromWave      int     `yaml:"from_wave"`
	Tier          string  `yaml:"tier"`
	HealthMult    float64 `yaml:"health_mult"`
	DamageMult    float64 `yaml:"damage_mult"`
	ShieldPercent float64 `yaml:"shield_percent"` // 0 = use the boss type default
	Color         *RGB    `yaml:"color,omitempty"`
}

// ArchetypeConfig defines the base stats and behavior composition of an enemy type.
type ArchetypeConfig struct {
	Health        float64 `yaml:"health"`
	Speed         float64 `yaml:"speed"`
	Radius        float64 `yaml:"radius"`
	ContactDamage float64 `yaml:"contact_damage"`
	XP            float64 `yaml:"xp"`
	Color         RGB     `yaml:"color"`

	// Kamikaze units zero their own health on contact and blast on death.
	Kamikaze        bool    `yaml:"kamikaze"`
	BaseBlastDamage float64 `yaml:"base_blast_damage"`
	// Support units grant the shield aura and are never protected by it.
	Support    bool    `yaml:"support"`
	AuraRadius float64 `yaml:"aura_radius"`

	// Spawn weighting (seconds of game time before this type can be scheduled).
	UnlockAt float64 `yaml:"unlock_at"`
	Weight   float64 `yaml:"weight"`

	// Extra speed factor per tier, applied on top of the tier table.
	TierSpeedPenalty map[string]float64 `yaml:"tier_speed_penalty"`

	Movement MovementConfig `yaml:"movement"`
	Attack   AttackConfig   `yaml:"attack"`
}

// MovementConfig parameterizes a movement strategy.
type MovementConfig struct {
	Kind string `yaml:"kind"` // orbit, chase, kite, rush, shielding

	OrbitRadius    float64 `yaml:"orbit_radius"`
	OrbitRate      float64 `yaml:"orbit_rate"` // rad/s, jittered per enemy
	PulseAmplitude float64 `yaml:"pulse_amplitude"`
	PulseFrequency float64 `yaml:"pulse_frequency"`
	OptimalRange   float64 `yaml:"optimal_range"`
	StrafeWeight   float64 `yaml:"strafe_weight"`
	TurnRate       float64 `yaml:"turn_rate"`       // rad/s (rush)
	AlignThreshold float64 `yaml:"align_threshold"` // cos of the "facing" cone (rush)
	Accel          float64 `yaml:"accel"`           // speed multiplier gain per second (rush)
	Decel          float64 `yaml:"decel"`
	MinSpeedScale  float64 `yaml:"min_speed_scale"`
	MaxSpeedScale  float64 `yaml:"max_speed_scale"`
	SearchRadius   float64 `yaml:"search_radius"`  // shielding ally search
	HoverDistance  float64 `yaml:"hover_distance"` // shielding keep-off distance
	DriftScale     float64 `yaml:"drift_scale"`    // shielding fallback speed scale
}

// AttackConfig parameterizes an attack strategy.
type AttackConfig struct {
	Kind string `yaml:"kind"` // none, projectile, laser

	Cooldown float64 `yaml:"cooldown"`
	Jitter   float64 `yaml:"jitter"` // Max random extra cooldown per attack
	Range    float64 `yaml:"range"`
	Damage   float64 `yaml:"damage"`

	// projectile
	Spread           float64 `yaml:"spread"` // radians, full cone
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	ProjectileRadius float64 `yaml:"projectile_radius"`
	ProjectileLife   float64 `yaml:"projectile_life"`

	// laser
	ChargeRate    float64 `yaml:"charge_rate"` // progress per second while charging
	FireRate      float64 `yaml:"fire_rate"`   // progress per second while firing
	TrackTurnRate float64 `yaml:"track_turn_rate"`
}

// BossConfig defines a boss type.
type BossConfig struct {
	Health        float64           `yaml:"health"`
	Speed         float64           `yaml:"speed"`
	Radius        float64           `yaml:"radius"`
	ContactDamage float64           `yaml:"contact_damage"`
	XP            float64           `yaml:"xp"`
	Color         RGB               `yaml:"color"`
	ShieldPercent float64           `yaml:"shield_percent"` // Type default when the boss tier sets none
	Movement      MovementConfig    `yaml:"movement"`
	Phases        []BossPhaseConfig `yaml:"phases"`
}

// BossPhaseConfig is one phase of a boss. Phases are listed by descending threshold.
type BossPhaseConfig struct {
	Name      string             `yaml:"name"`
	Threshold float64            `yaml:"threshold"` // Health fraction at or below which the phase is active
	Attacks   []BossAttackConfig `yaml:"attacks"`
}

// BossAttackConfig parameterizes one boss attack behavior.
type BossAttackConfig struct {
	Kind     string  `yaml:"kind"` // twin_plasma, missile_salvo, drone_spawn, charged_beam
	Cooldown float64 `yaml:"cooldown"`
	Jitter   float64 `yaml:"jitter"`
	Range    float64 `yaml:"range"`
	Damage   float64 `yaml:"damage"`
	Count    int     `yaml:"count"`
	Speed    float64 `yaml:"speed"`
	Radius   float64 `yaml:"radius"`
	Spread   float64 `yaml:"spread"`
	Life     float64 `yaml:"life"`
	Offset   float64 `yaml:"offset"`   // Cannon lateral offset (twin plasma)
	TurnRate float64 `yaml:"turn_rate"` // Missile steering / beam tracking
	Spawn    string  `yaml:"spawn"`    // Archetype for drone_spawn
	MaxAlive int     `yaml:"max_alive"`

	ChargeRate float64 `yaml:"charge_rate"`
	FireRate   float64 `yaml:"fire_rate"`
}

// WeaponConfig defines a player weapon loadout.
type WeaponConfig struct {
	Effect    string  `yaml:"effect"` // none, explosive, piercing, homing, laser, chain, pulsing
	Damage    float64 `yaml:"damage"`
	FireRate  float64 `yaml:"fire_rate"` // shots per second
	Speed     float64 `yaml:"speed"`
	Radius    float64 `yaml:"radius"`
	Duration  float64 `yaml:"duration"`
	Pierce    int     `yaml:"pierce"`
	Multishot int     `yaml:"multishot"`
	Spread    float64 `yaml:"spread"`

	SplashRadius float64 `yaml:"splash_radius"`
	SplashFactor float64 `yaml:"splash_factor"`

	HomingTurnRate     float64 `yaml:"homing_turn_rate"`
	HomingSearchRadius float64 `yaml:"homing_search_radius"`

	ChargeTime       float64 `yaml:"charge_time"`
	BeamDuration     float64 `yaml:"beam_duration"`
	BeamLength       float64 `yaml:"beam_length"`
	BeamWidth        float64 `yaml:"beam_width"`
	ChargeTurnRate   float64 `yaml:"charge_turn_rate"`
	FireTurnRate     float64 `yaml:"fire_turn_rate"`
	AutoTargetRadius float64 `yaml:"auto_target_radius"`

	ChainJumps int     `yaml:"chain_jumps"`
	ChainRange float64 `yaml:"chain_range"`
	ChainDecay float64 `yaml:"chain_decay"`

	PulseInterval    float64 `yaml:"pulse_interval"`
	PulseRadius      float64 `yaml:"pulse_radius"`
	PulseFraction    float64 `yaml:"pulse_fraction"`
	ImpactMultiplier float64 `yaml:"impact_multiplier"`
	SlowFactor       float64 `yaml:"slow_factor"`
	SlowDuration     float64 `yaml:"slow_duration"`
}

// SchedulerConfig holds spawn pacing parameters.
type SchedulerConfig struct {
	BaseInterval float64 `yaml:"base_interval"`
	MinInterval  float64 `yaml:"min_interval"`
	RampEvery    float64 `yaml:"ramp_every"`
	RampFactor   float64 `yaml:"ramp_factor"`
	SoftCap      int     `yaml:"soft_cap"`

	SpawnDistance float64 `yaml:"spawn_distance"`
	LullDistance  float64 `yaml:"lull_distance"`

	LullPeriod       float64 `yaml:"lull_period"`
	LullDuration     float64 `yaml:"lull_duration"`
	LullIntervalMult float64 `yaml:"lull_interval_mult"`

	KamikazeStart       float64 `yaml:"kamikaze_start"`
	KamikazeInterval    float64 `yaml:"kamikaze_interval"`
	KamikazeBurst       int     `yaml:"kamikaze_burst"`
	KamikazeEliteChance float64 `yaml:"kamikaze_elite_chance"`
	KamikazeArchetype   string  `yaml:"kamikaze_archetype"`

	BossFirst    float64  `yaml:"boss_first"`
	BossInterval float64  `yaml:"boss_interval"`
	BossRotation []string `yaml:"boss_rotation"`

	LevelEvery float64 `yaml:"level_every"`

	EliteChance       float64 `yaml:"elite_chance"`
	EliteChancePerMin float64 `yaml:"elite_chance_per_min"`
	EliteChanceMax    float64 `yaml:"elite_chance_max"`
	LegendaryChance   float64 `yaml:"legendary_chance"`
	LegendaryUnlock   float64 `yaml:"legendary_unlock"`
	MinibossChance    float64 `yaml:"miniboss_chance"`
	MinibossUnlock    float64 `yaml:"miniboss_unlock"`
}

// CollisionConfig holds collision pipeline constants.
type CollisionConfig struct {
	EnemyShotPlayerRadius float64 `yaml:"enemy_shot_player_radius"` // Fixed player radius for enemy projectiles
	KamikazeBlastRadius   float64 `yaml:"kamikaze_blast_radius"`
	BeamTickInterval      float64 `yaml:"beam_tick_interval"`
	MissileSplashRadius   float64 `yaml:"missile_splash_radius"`
	SniperBeamLength      float64 `yaml:"sniper_beam_length"`
	SniperBeamWidth       float64 `yaml:"sniper_beam_width"`
	BossBeamLength        float64 `yaml:"boss_beam_length"`
	BossBeamWidth         float64 `yaml:"boss_beam_width"`
	BeamWidthShrink       float64 `yaml:"beam_width_shrink"` // Fraction of width lost at full charge
	ContactInterval       float64 `yaml:"contact_interval"`  // Player thorns re-hit interval per enemy
}

// PickupConfig holds drop and collection parameters.
type PickupConfig struct {
	GemRadius     float64 `yaml:"gem_radius"`
	CreditChance  float64 `yaml:"credit_chance"`
	CreditValue   float64 `yaml:"credit_value"`
	PowerUpChance float64 `yaml:"power_up_chance"`
	HealAmount    float64 `yaml:"heal_amount"`
	ShieldAmount  float64 `yaml:"shield_amount"`
	ScatterRadius float64 `yaml:"scatter_radius"`
	ScorePerXP    int     `yaml:"score_per_xp"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	BookmarkHistory     int     `yaml:"bookmark_history"`
	NearDeathFraction   float64 `yaml:"near_death_fraction"`
	KillStreak          int     `yaml:"kill_streak"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Difficulty     DifficultyPreset // Resolved active preset
	ArchetypeNames []string         // Sorted archetype names (deterministic iteration)
	BossNames      []string
}

// RGB is a color loaded from a "#rrggbb" string.
type RGB struct {
	R, G, B uint8
}

// UnmarshalYAML parses "#rrggbb".
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRGB(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the color back as "#rrggbb".
func (c RGB) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// String formats the color as "#rrggbb".
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseRGB parses a "#rrggbb" color string.
func ParseRGB(s string) (RGB, error) {
	var c RGB
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return c, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return c, fmt.Errorf("color %q: %w", s, err)
	}
	c.R = uint8(v >> 16)
	c.G = uint8(v >> 8)
	c.B = uint8(v)
	return c, nil
}

// global holds the loaded configuration for CLI entry points.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
// Panics if the embedded file is malformed.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDifficulty switches the active preset and recomputes derived values.
func (c *Config) SetDifficulty(name string) error {
	c.Difficulty.Active = name
	return c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	preset, ok := c.Difficulty.Presets[c.Difficulty.Active]
	if !ok {
		return fmt.Errorf("difficulty %q: %w", c.Difficulty.Active, ErrUnknownDifficulty)
	}
	if preset.Multiplier == 0 {
		preset.Multiplier = 1
	}
	if preset.LootMultiplier == 0 {
		preset.LootMultiplier = 1
	}
	c.Derived.Difficulty = preset

	if c.Sim.MaxDT <= 0 {
		c.Sim.MaxDT = 0.05
	}
	if c.Sim.HeadlessDT <= 0 {
		c.Sim.HeadlessDT = 1.0 / 60.0
	}
	if c.Sim.GridCellSize <= 0 {
		c.Sim.GridCellSize = 250
	}
	if c.Meta.PerLevel == 0 {
		c.Meta.PerLevel = 0.1
	}

	// Fill tier table gaps with neutral multipliers
	for name, t := range c.Tiers {
		if t.HealthMult == 0 {
			t.HealthMult = 1
		}
		if t.RadiusMult == 0 {
			t.RadiusMult = 1
		}
		if t.SpeedMult == 0 {
			t.SpeedMult = 1
		}
		if t.XPMult == 0 {
			t.XPMult = 1
		}
		c.Tiers[name] = t
	}

	sort.SliceStable(c.BossTiers, func(i, j int) bool {
		return c.BossTiers[i].FromWave < c.BossTiers[j].FromWave
	})

	c.Derived.ArchetypeNames = c.Derived.ArchetypeNames[:0]
	for name := range c.Archetypes {
		c.Derived.ArchetypeNames = append(c.Derived.ArchetypeNames, name)
	}
	sort.Strings(c.Derived.ArchetypeNames)

	c.Derived.BossNames = c.Derived.BossNames[:0]
	for name := range c.Bosses {
		c.Derived.BossNames = append(c.Derived.BossNames, name)
	}
	sort.Strings(c.Derived.BossNames)

	return nil
}

// BossTierFor returns the boss tier row for a wave index.
// Returns a neutral normal-tier row when the table is empty.
func (c *Config) BossTierFor(waveIndex int) BossTierConfig {
	row := BossTierConfig{Tier: "normal", HealthMult: 1, DamageMult: 1}
	for _, bt := range c.BossTiers {
		if waveIndex >= bt.FromWave {
			row = bt
		}
	}
	if row.HealthMult == 0 {
		row.HealthMult = 1
	}
	if row.DamageMult == 0 {
		row.DamageMult = 1
	}
	return row
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
