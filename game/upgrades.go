package game

import "github.com/pthm-cable/arena/components"

// Upgrade is a level-up reward chosen by the player.
type Upgrade uint8

const (
	UpgradeNone Upgrade = iota
	UpgradeDamage
	UpgradeFireRate
	UpgradeSpeed
	UpgradeMagnet
	UpgradeVitality
	UpgradePierce
	UpgradeChain
	upgradeCount
)

var upgradeNames = [...]string{"none", "damage", "fire_rate", "speed", "magnet", "vitality", "pierce", "chain"}

func (u Upgrade) String() string {
	if u < upgradeCount {
		return upgradeNames[u]
	}
	return "unknown"
}

// Upgrades lists the selectable upgrades in menu order.
func Upgrades() []Upgrade {
	out := make([]Upgrade, 0, upgradeCount-1)
	for u := UpgradeDamage; u < upgradeCount; u++ {
		out = append(out, u)
	}
	return out
}

func (u Upgrade) apply(pl *components.Player) {
	st := &pl.Stats
	switch u {
	case UpgradeDamage:
		st.DamageMult += 0.1
	case UpgradeFireRate:
		st.FireRateMult += 0.1
	case UpgradeSpeed:
		st.Speed *= 1.08
	case UpgradeMagnet:
		st.MagnetRadius *= 1.2
	case UpgradeVitality:
		pl.Health.MaxHP += 20
		pl.Health.HP = min(pl.Health.HP+20, pl.Health.MaxHP)
	case UpgradePierce:
		st.ExtraPierce++
	case UpgradeChain:
		st.ExtraChain++
	}
}

// ApplyUpgrade spends one pending level on u. It returns false when no
// level is pending or u is not a real upgrade.
func (s *Session) ApplyUpgrade(u Upgrade) bool {
	if u == UpgradeNone || u >= upgradeCount || !s.player.ConsumeLevelUp() {
		return false
	}
	u.apply(&s.player)
	s.logger.Info("upgrade", "upgrade", u.String(), "level", s.player.Level, "pending", s.player.PendingLevels)
	return true
}
