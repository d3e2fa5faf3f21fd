package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParticleRenderer renders effect particles in world space.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders all particles. Call inside the world camera pass.
func (r *ParticleRenderer) Draw(particles []EffectParticle) {
	for i := range particles {
		p := &particles[i]
		life := float32(p.Ratio())
		pos := vec(p.Pos)

		switch p.Type {
		case ParticleExplosion:
			// Ring grows as it fades
			radius := float32(p.Size) * (1.2 - 0.7*life)
			rl.DrawCircleV(pos, radius, rgba(p.Color, uint8(life*90)))
			rl.DrawRing(pos, radius*0.85, radius, 0, 360, 32, rgba(p.Color, uint8(life*220)))

		case ParticleFlash:
			rl.DrawCircleV(pos, float32(p.Size), rgba(p.Color, uint8(life*200)))

		case ParticleLightning:
			rl.DrawLineEx(pos, vec(p.To), float32(p.Size)+2*life, rgba(p.Color, uint8(life*255)))

		case ParticleNumber:
			size := int32(p.Size)
			w := rl.MeasureText(p.Text, size)
			rl.DrawText(p.Text, int32(pos.X)-w/2, int32(pos.Y), size, rgba(p.Color, uint8(life*255)))
		}
	}
}
