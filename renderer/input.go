package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/camera"
	"github.com/pthm-cable/arena/game"
)

// SummonKeys maps sandbox debug keys to archetypes and bosses.
var SummonKeys = []struct {
	Key  int32
	Name string
}{
	{rl.KeyZ, "scout"},
	{rl.KeyX, "brute"},
	{rl.KeyC, "kamikaze"},
	{rl.KeyV, "sniper"},
	{rl.KeyB, "gunner"},
	{rl.KeyN, "shielder"},
	{rl.KeyM, "dreadnought"},
	{rl.KeyComma, "overseer"},
}

var upgradeKeys = []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive, rl.KeySix, rl.KeySeven}

// Controls turns keyboard and mouse state into simulation input.
type Controls struct {
	AutoFire bool
	Sandbox  bool
}

// MoveVector combines four direction flags into a move vector. Opposite
// keys cancel; the simulation clamps the length.
func MoveVector(up, down, left, right bool) r2.Vec {
	var v r2.Vec
	if up {
		v.Y--
	}
	if down {
		v.Y++
	}
	if left {
		v.X--
	}
	if right {
		v.X++
	}
	return v
}

// Capture reads this frame's input. Aim points from the player to the
// mouse in world space.
func (c *Controls) Capture(cam *camera.Camera, playerX, playerY float64) game.Input {
	if rl.IsKeyPressed(rl.KeyF) {
		c.AutoFire = !c.AutoFire
	}

	in := game.Input{
		Move: MoveVector(
			rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
			rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
			rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
			rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		),
		Fire: c.AutoFire || rl.IsMouseButtonDown(rl.MouseButtonLeft) || rl.IsKeyDown(rl.KeySpace),
	}

	mouse := rl.GetMousePosition()
	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	in.Aim = r2.Sub(r2.Vec{X: float64(wx), Y: float64(wy)}, r2.Vec{X: playerX, Y: playerY})

	upgrades := game.Upgrades()
	for i, key := range upgradeKeys {
		if i < len(upgrades) && rl.IsKeyPressed(key) {
			in.Upgrade = upgrades[i]
		}
	}

	if c.Sandbox {
		for _, sk := range SummonKeys {
			if rl.IsKeyPressed(sk.Key) {
				in.Summon = sk.Name
			}
		}
	}
	return in
}
