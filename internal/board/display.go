package board

import (
	"fmt"

	"github.com/Garsondee/BoardView/internal/game"
)

// MineKind is the type of a minefield.
type MineKind int

const (
	MineConventional MineKind = iota
	MineCommandDetonated
	MineVibrabomb
	MineActive
	MineInferno
	MineEMP
)

// Minefield is a minefield in one hex.
type Minefield struct {
	Kind    MineKind
	Density int
	Owner   int
	// Setting is the vibrabomb trigger weight.
	Setting int
}

// Label returns the one or two text lines shown on a lone minefield.
// The vibrabomb setting is only revealed to the owner.
func (m Minefield) Label(viewer int) []string {
	switch m.Kind {
	case MineConventional:
		return []string{fmt.Sprintf("Conventional (%d)", m.Density)}
	case MineInferno:
		return []string{fmt.Sprintf("Inferno (%d)", m.Density)}
	case MineActive:
		return []string{fmt.Sprintf("Active (%d)", m.Density)}
	case MineCommandDetonated:
		return []string{"Command-", fmt.Sprintf("detonated (%d)", m.Density)}
	case MineVibrabomb:
		if m.Owner == viewer {
			return []string{"Vibrabomb", fmt.Sprintf("(%d)", m.Setting)}
		}
		return []string{"Vibrabomb"}
	default:
		return nil
	}
}

// SpecialKind is the kind of a special hex display.
type SpecialKind int

const (
	SpecialArtilleryIncoming SpecialKind = iota
	SpecialArtilleryTarget
	SpecialArtilleryHit
	SpecialArtilleryMiss
	SpecialBombHit
	SpecialBombMiss
	SpecialBombDrift
	SpecialNukeHit
	SpecialOrbitalBombardment
	SpecialPlayerNote
)

func (k SpecialKind) String() string {
	switch k {
	case SpecialArtilleryIncoming:
		return "artillery_incoming"
	case SpecialArtilleryTarget:
		return "artillery_target"
	case SpecialArtilleryHit:
		return "artillery_hit"
	case SpecialArtilleryMiss:
		return "artillery_miss"
	case SpecialBombHit:
		return "bomb_hit"
	case SpecialBombMiss:
		return "bomb_miss"
	case SpecialBombDrift:
		return "bomb_drift"
	case SpecialNukeHit:
		return "nuke_hit"
	case SpecialOrbitalBombardment:
		return "orbital_bombardment"
	case SpecialPlayerNote:
		return "note"
	default:
		return "unknown"
	}
}

// Visibility limits who is shown a special display.
type Visibility int

const (
	VisibleAll Visibility = iota
	VisibleTeam
	VisibleOwner
)

// SpecialDisplay is an annotation drawn inside a hex.
type SpecialDisplay struct {
	Kind       SpecialKind
	Round      int
	Owner      int
	Team       int
	Visibility Visibility
	Info       string
}

// DrawNow reports whether the display is shown to viewer in the given
// phase and round. Incoming fire shows until it lands; results show for
// the round they happened in and the one after; notes always show.
func (d SpecialDisplay) DrawNow(phase game.Phase, round int, viewer *game.Player) bool {
	if !d.visibleTo(viewer) {
		return false
	}
	switch d.Kind {
	case SpecialPlayerNote:
		return true
	case SpecialArtilleryIncoming, SpecialArtilleryTarget, SpecialOrbitalBombardment:
		return round <= d.Round
	case SpecialArtilleryHit, SpecialArtilleryMiss, SpecialBombHit, SpecialBombMiss,
		SpecialBombDrift, SpecialNukeHit:
		if round == d.Round {
			return phase >= game.PhaseFiring || phase == game.PhaseUnknown
		}
		return round == d.Round+1
	default:
		return false
	}
}

func (d SpecialDisplay) visibleTo(viewer *game.Player) bool {
	switch d.Visibility {
	case VisibleAll:
		return true
	case VisibleTeam:
		return viewer != nil && (viewer.ID == d.Owner || (viewer.Team != game.TeamNone && viewer.Team == d.Team))
	case VisibleOwner:
		return viewer != nil && viewer.ID == d.Owner
	default:
		return false
	}
}
