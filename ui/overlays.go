package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayHitboxes   OverlayID = "hitboxes"
	OverlayMagnet     OverlayID = "magnet"
	OverlayBeamGuides OverlayID = "beam_guides"
	OverlayArenaGrid  OverlayID = "arena_grid"
	OverlayPerf       OverlayID = "perf"
	OverlayEventFeed  OverlayID = "event_feed"
	OverlayInspector  OverlayID = "inspector"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // Toggle key, 0 for none
	KeyLabel    string // Key label for display (e.g., "F1")
	Category    string // "world", "panels" or "debug"
	Exclusive   []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.enabled[OverlayEventFeed] = true
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayArenaGrid,
		Name:        "Arena Grid",
		Description: "Floor grid lines",
		Key:         rl.KeyF1,
		KeyLabel:    "F1",
		Category:    "world",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayMagnet,
		Name:        "Magnet Radius",
		Description: "Player pickup and magnet radii",
		Key:         rl.KeyF2,
		KeyLabel:    "F2",
		Category:    "world",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Performance",
		Description: "Step phase timings",
		Key:         rl.KeyF3,
		KeyLabel:    "F3",
		Category:    "panels",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayEventFeed,
		Name:        "Event Feed",
		Description: "Recent kills, hits and phase changes",
		Key:         rl.KeyF4,
		KeyLabel:    "F4",
		Category:    "panels",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayInspector,
		Name:        "Inspector",
		Description: "Click an enemy to inspect it",
		Key:         rl.KeyF5,
		KeyLabel:    "F5",
		Category:    "panels",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayHitboxes,
		Name:        "Hitboxes",
		Description: "Collision circles for every body",
		Key:         rl.KeyF6,
		KeyLabel:    "F6",
		Category:    "debug",
		Exclusive:   []OverlayID{OverlayBeamGuides},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayBeamGuides,
		Name:        "Beam Guides",
		Description: "Full-length beam and laser aim lines",
		Key:         rl.KeyF7,
		KeyLabel:    "F7",
		Category:    "debug",
		Exclusive:   []OverlayID{OverlayHitboxes},
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle flips an overlay and returns its new state. Unknown ids stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return on
}

// SetEnabled sets an overlay's state. Enabling one turns off the overlays
// it excludes. Unknown ids are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in registration order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, desc := range r.descriptors {
		if !slices.Contains(cats, desc.Category) {
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. It reports the overlay,
// its new state and whether any overlay was bound.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// PollKeys toggles overlays whose keys were pressed this frame.
func (r *OverlayRegistry) PollKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// EnabledOverlays returns the enabled overlay ids in registration order.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, desc := range r.descriptors {
		if r.enabled[desc.ID] {
			result = append(result, desc.ID)
		}
	}
	return result
}
