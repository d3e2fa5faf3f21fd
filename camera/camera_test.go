package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 4000)

	if cam.X != 2000 || cam.Y != 2000 {
		t.Errorf("expected camera at (2000, 2000), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if !near(cam.MinZoom, 0.32) {
		t.Errorf("expected MinZoom 0.32, got %f", cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 4000)

	sx, sy := cam.WorldToScreen(2000, 2000)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 4000)
	cam.SetZoom(1.7)
	cam.Follow(900, 3100, 1)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}
	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestFollowClampsToArena(t *testing.T) {
	cam := New(1280, 720, 4000)
	cam.Smoothing = 0

	cam.Follow(10, 3990, 0.016)
	if cam.X != 640 || cam.Y != 3640 {
		t.Errorf("expected clamp to (640, 3640), got (%f, %f)", cam.X, cam.Y)
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if minX < 0 || minY < 0 || maxX > 4000 || maxY > 4000 {
		t.Errorf("view leaves the arena: (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestFollowSmooths(t *testing.T) {
	cam := New(1280, 720, 4000)

	cam.Follow(2100, 2000, 0.1) // 60% of the way
	if !near(cam.X, 2060) {
		t.Errorf("expected X 2060, got %f", cam.X)
	}
	cam.Follow(2100, 2000, 10)
	if !near(cam.X, 2100) {
		t.Errorf("expected X snapped to 2100, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 4000)

	cam.SetZoom(0.1)
	if !near(cam.Zoom, 0.32) {
		t.Errorf("expected zoom clamped to 0.32, got %f", cam.Zoom)
	}
	// Horizontal view covers the arena, vertical does not
	if cam.X != 2000 {
		t.Errorf("expected X centered at min zoom, got %f", cam.X)
	}

	cam.ZoomBy(100)
	if cam.Zoom != 3.0 {
		t.Errorf("expected zoom clamped to 3.0, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 4000)

	if !cam.IsVisible(2000, 2000, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(3000, 2600, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(1300, 2000, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 4000)
	cam.Smoothing = 0
	cam.SetZoom(2.5)
	cam.Follow(500, 500, 1)

	cam.Reset()
	if cam.X != 2000 || cam.Y != 2000 {
		t.Errorf("expected position (2000, 2000), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
