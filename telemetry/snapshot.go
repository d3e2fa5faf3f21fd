package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a read-only view of a session at one instant. It feeds the
// renderer every frame and is written to disk when a bookmark triggers.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	Seed    int64  `json:"seed"`

	WorldSize float64 `json:"world_size"`
	Time      float64 `json:"time"`
	GameTime  float64 `json:"game_time"`
	Over      bool    `json:"over"`

	Player      PlayerState       `json:"player"`
	Enemies     []EnemyState      `json:"enemies"`
	Projectiles []ProjectileState `json:"projectiles"`
	Pickups     []PickupState     `json:"pickups"`

	Recent   []Event   `json:"recent,omitempty"`
	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// PlayerState is the player's view in a snapshot.
type PlayerState struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	AimX      float64 `json:"aim_x"`
	AimY      float64 `json:"aim_y"`
	Radius    float64 `json:"radius"`
	Magnet    float64 `json:"magnet_radius"`
	HP        float64 `json:"hp"`
	MaxHP     float64 `json:"max_hp"`
	Shield    float64 `json:"shield"`
	MaxShield float64 `json:"max_shield"`
	Level     int     `json:"level"`
	XP        float64 `json:"xp"`
	XPToNext  float64 `json:"xp_to_next"`
	Pending   int     `json:"pending_levels"`
	Score     int     `json:"score"`
	Credits   int     `json:"credits"`
	Kills     int     `json:"kills"`
	Hurt      bool    `json:"hurt"`
}

// EnemyState is one enemy's view in a snapshot. Inspect tags drive the
// debug inspector.
type EnemyState struct {
	ID        uint32  `json:"id" inspect:"label"`
	Archetype string  `json:"archetype"`
	Tier      string  `json:"tier"`
	Level     int     `json:"level"`
	Boss      bool    `json:"boss,omitempty"`
	Phase     string  `json:"phase,omitempty"`
	Color     string  `json:"color" inspect:"skip"`
	X         float64 `json:"x" inspect:"label,fmt:%.0f"`
	Y         float64 `json:"y" inspect:"label,fmt:%.0f"`
	Radius    float64 `json:"radius" inspect:"label,fmt:%.0f"`
	HP        float64 `json:"hp" inspect:"bar,of:MaxHP"`
	MaxHP     float64 `json:"max_hp" inspect:"label,fmt:%.0f"`
	Shield    float64 `json:"shield" inspect:"bar,of:MaxHP"`
	Shielded  bool    `json:"shielded,omitempty"` // Inside a support aura
	Slowed    bool    `json:"slowed,omitempty"`

	// Active beam, for telegraph and damage drawing
	BeamCharging bool    `json:"beam_charging,omitempty"`
	BeamFiring   bool    `json:"beam_firing,omitempty"`
	BeamAngle    float64 `json:"beam_angle,omitempty" inspect:"angle"`
	BeamProgress float64 `json:"beam_progress,omitempty" inspect:"bar,max:1"`
	BeamBoss     bool    `json:"beam_boss,omitempty" inspect:"skip"`
}

// ProjectileState is one projectile's view in a snapshot.
type ProjectileState struct {
	ID     uint32  `json:"id"`
	Enemy  bool    `json:"enemy,omitempty"`
	Effect string  `json:"effect"`
	Color  string  `json:"color"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DirX   float64 `json:"dir_x"`
	DirY   float64 `json:"dir_y"`
	Radius float64 `json:"radius"`

	// Player laser
	Laser       bool    `json:"laser,omitempty"`
	LaserFiring bool    `json:"laser_firing,omitempty"`
	LaserAngle  float64 `json:"laser_angle,omitempty"`
	LaserLength float64 `json:"laser_length,omitempty"`
	LaserWidth  float64 `json:"laser_width,omitempty"`
	Charge      float64 `json:"charge,omitempty"`
}

// PickupState is one pickup's view in a snapshot.
type PickupState struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Value  float64 `json:"value"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%07.2f", snapshot.GameTime)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name += "_" + sanitized
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
