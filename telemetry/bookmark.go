package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBossDefeated BookmarkType = "boss_defeated"
	BookmarkNearDeath    BookmarkType = "near_death"
	BookmarkKillStreak   BookmarkType = "kill_streak"
	BookmarkDamageSpike  BookmarkType = "damage_spike"
)

// Bookmark marks a window worth revisiting.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Time        float64      `csv:"time" json:"time"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"time", b.Time,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments from consecutive stats windows.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historyIdx  int
	historyFull bool

	nearDeathFraction float64
	killStreak        int

	// Near-death re-arms once the player recovers above twice the threshold.
	nearDeathArmed bool
}

// NewBookmarkDetector creates a detector.
// nearDeathFraction: HP fraction at or below which a window counts as near death
// killStreak: minimum kills in one window for a streak
func NewBookmarkDetector(historySize int, nearDeathFraction float64, killStreak int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:           make([]WindowStats, historySize),
		nearDeathFraction: nearDeathFraction,
		killStreak:        killStreak,
		nearDeathArmed:    true,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.BossKills > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkBossDefeated,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("%d boss(es) defeated", stats.BossKills),
		})
	}
	if b := bd.checkNearDeath(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	history := bd.getHistory()
	if len(history) >= 3 {
		if b := checkKillStreak(stats, history, bd.killStreak); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := checkDamageSpike(stats, history); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

// Reset clears history for a new session.
func (bd *BookmarkDetector) Reset() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.nearDeathArmed = true
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % len(bd.history)
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkNearDeath(stats WindowStats) *Bookmark {
	if stats.MinHPFraction > 2*bd.nearDeathFraction {
		bd.nearDeathArmed = true
		return nil
	}
	if !bd.nearDeathArmed || stats.MinHPFraction <= 0 || stats.MinHPFraction > bd.nearDeathFraction {
		return nil
	}
	bd.nearDeathArmed = false
	return &Bookmark{
		Type:        BookmarkNearDeath,
		Time:        stats.WindowEnd,
		Description: fmt.Sprintf("Player survived at %.0f%% HP", stats.MinHPFraction*100),
	}
}

func checkKillStreak(stats WindowStats, history []WindowStats, threshold int) *Bookmark {
	var total int
	for _, h := range history {
		total += h.Kills
	}
	avg := float64(total) / float64(len(history))

	if stats.Kills >= threshold && float64(stats.Kills) > avg*2 {
		return &Bookmark{
			Type:        BookmarkKillStreak,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("%d kills is %.1fx average (%.1f)", stats.Kills, float64(stats.Kills)/max(avg, 1), avg),
		}
	}
	return nil
}

func checkDamageSpike(stats WindowStats, history []WindowStats) *Bookmark {
	var total float64
	for _, h := range history {
		total += h.DamageTaken
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.DamageTaken > avg*3 {
		return &Bookmark{
			Type:        BookmarkDamageSpike,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("Took %.0f damage, %.1fx average (%.0f)", stats.DamageTaken, stats.DamageTaken/avg, avg),
		}
	}
	return nil
}
