package components

// Health holds the damageable pools of an entity.
// Shield absorbs damage before HP. Neither pool goes negative after resolution.
type Health struct {
	HP        float64
	MaxHP     float64
	Shield    float64
	MaxShield float64

	// ShieldedByAura halves incoming damage. Recomputed every tick by the aura pass.
	ShieldedByAura bool
	// DeathDefiance negates one lethal hit, then clears.
	DeathDefiance bool
}

// Dead reports whether HP has reached zero.
func (h *Health) Dead() bool {
	return h.HP <= 0
}

// Fraction returns HP as a fraction of MaxHP.
func (h *Health) Fraction() float64 {
	if h.MaxHP <= 0 {
		return 0
	}
	return h.HP / h.MaxHP
}

// Kill zeroes HP and shield without going through damage resolution.
func (h *Health) Kill() {
	h.HP = 0
	h.Shield = 0
}
