package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists overlay toggles by category with their hotkeys.
// Hidden until toggled with Tab.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

func (c *ControlsPanel) IsVisible() bool { return c.visible }

// Toggle flips visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// controlRow is one line of the panel: a category header or an overlay.
type controlRow struct {
	header string
	desc   OverlayDescriptor
	on     bool
}

func controlRows(overlays *OverlayRegistry) []controlRow {
	var rows []controlRow
	for _, cat := range overlays.Categories() {
		descs := overlays.ByCategory(cat)
		enabled := 0
		items := make([]controlRow, len(descs))
		for i, d := range descs {
			items[i] = controlRow{desc: d, on: overlays.IsEnabled(d.ID)}
			if items[i].on {
				enabled++
			}
		}
		rows = append(rows, controlRow{header: fmt.Sprintf("%s (%d/%d)", categoryLabel(cat), enabled, len(descs))})
		rows = append(rows, items...)
	}
	return rows
}

// Draw renders the panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) {
	if !c.visible {
		return
	}
	th := c.renderer.Theme
	rows := controlRows(overlays)
	c.renderer.DrawPanel(c.x, c.y, c.width, int32(len(rows)+1)*th.LineHeight+2*th.Padding)

	x := c.x + th.Padding
	y := c.renderer.DrawSectionHeader(x, c.y+th.Padding, "Overlays  [Tab]")
	for _, row := range rows {
		if row.header != "" {
			rl.DrawText(row.header, x, y, th.FontSize, th.Header)
		} else {
			c.drawToggle(x, y, row)
		}
		y += th.LineHeight
	}
}

func (c *ControlsPanel) drawToggle(x, y int32, row controlRow) {
	th := c.renderer.Theme
	box, text := th.Track, th.Label
	if row.on {
		box, text = th.Healthy, th.Value
	}
	rl.DrawRectangle(x+4, y+3, 8, 8, box)
	rl.DrawText(row.desc.Name, x+18, y, th.FontSize, text)
	if row.desc.KeyLabel != "" {
		key := "[" + row.desc.KeyLabel + "]"
		right := c.x + c.width - th.Padding
		rl.DrawText(key, right-rl.MeasureText(key, th.FontSize), y, th.FontSize, rl.Gray)
	}
}

func categoryLabel(cat string) string {
	if cat == "" {
		return cat
	}
	return strings.ToUpper(cat[:1]) + cat[1:]
}
