// Package game is the read-only game snapshot the board view renders:
// players, units, pending actions, the phase and the light level.
package game

// Phase is the current game phase. The ordinal is stable and appears in
// summary screenshot file names.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseLounge
	PhaseSelection
	PhaseExchange
	PhaseDeployment
	PhaseInitiative
	PhaseInitiativeReport
	PhaseTargeting
	PhaseTargetingReport
	PhasePremovement
	PhaseMovement
	PhaseMovementReport
	PhaseOffboard
	PhaseOffboardReport
	PhasePointblankShot
	PhasePrefiring
	PhaseFiring
	PhaseFiringReport
	PhasePhysical
	PhasePhysicalReport
	PhaseEnd
	PhaseEndReport
	PhaseVictory
	PhaseDeployMinefields
	PhaseStartingScenario
	PhaseSetArtilleryAutohitHexes
	phaseCount
)

var phaseNames = [phaseCount]string{
	"UNKNOWN", "LOUNGE", "SELECTION", "EXCHANGE", "DEPLOYMENT", "INITIATIVE",
	"INITIATIVE_REPORT", "TARGETING", "TARGETING_REPORT", "PREMOVEMENT",
	"MOVEMENT", "MOVEMENT_REPORT", "OFFBOARD", "OFFBOARD_REPORT",
	"POINTBLANK_SHOT", "PREFIRING", "FIRING", "FIRING_REPORT", "PHYSICAL",
	"PHYSICAL_REPORT", "END", "END_REPORT", "VICTORY", "DEPLOY_MINEFIELDS",
	"STARTING_SCENARIO", "SET_ARTILLERY_AUTOHIT_HEXES",
}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Ordinal is the phase's position in the phase table.
func (p Phase) Ordinal() int { return int(p) }

// ParsePhase maps a phase name back to its value.
func ParsePhase(name string) (Phase, bool) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), true
		}
	}
	return PhaseUnknown, false
}

// Light is the planetary light level.
type Light int

const (
	LightDay Light = iota
	LightDusk
	LightFullMoon
	LightGlare
	LightMoonless
	LightSolarFlare
	LightPitchBlack
)

func (l Light) String() string {
	switch l {
	case LightDay:
		return "day"
	case LightDusk:
		return "dusk"
	case LightFullMoon:
		return "full moon"
	case LightGlare:
		return "glare"
	case LightMoonless:
		return "moonless"
	case LightSolarFlare:
		return "solar flare"
	case LightPitchBlack:
		return "pitch black"
	default:
		return "unknown"
	}
}

// IsDay is true for every daylight level, including glare and flares.
func (l Light) IsDay() bool {
	return l == LightDay || l == LightGlare || l == LightSolarFlare
}

// Darkens reports whether the map gets the night pixel pass.
func (l Light) Darkens() bool {
	switch l {
	case LightDusk, LightFullMoon, LightMoonless, LightPitchBlack:
		return true
	default:
		return false
	}
}
