package board

// Terrain identifies a terrain feature that can sit on a hex.
type Terrain uint8

const (
	TerrainNone           Terrain = iota // Empty marker
	TerrainWoods                         // Light/heavy/ultra woods by level
	TerrainJungle                        // Jungle by level
	TerrainWater                         // Water; level is the depth
	TerrainRough                         // Rough ground
	TerrainRubble                        // Collapsed building
	TerrainRoad                          // Road; exits give the directions
	TerrainPavement                      // Paved area
	TerrainSnow                          // Snow cover
	TerrainIce                           // Ice sheet
	TerrainMud                           // Mud
	TerrainSwamp                         // Swamp
	TerrainGroundFluff                   // Decorative ground detail
	TerrainFoliageElev                   // Foliage height; 1 is low foliage
	TerrainBuilding                      // Building type
	TerrainBldgElev                      // Building height
	TerrainBldgBasement                  // Basement type
	TerrainBridge                        // Bridge type
	TerrainBridgeElev                    // Bridge height
	TerrainIndustrial                    // Industrial structure height
	TerrainFortified                     // Fortified hex
	TerrainCliffTop                      // Cliff edge; exits face the drop
	TerrainFire                          // Burning
	TerrainSmoke                         // Smoke
	TerrainDeploymentZone                // Custom deployment zone; exits are zone ids
	terrainCount                         // sentinel
)

var terrainNames = [terrainCount]string{
	"none", "woods", "jungle", "water", "rough", "rubble", "road", "pavement",
	"snow", "ice", "mud", "swamp", "fluff", "foliage_elev", "building",
	"bldg_elev", "bldg_basement_type", "bridge", "bridge_elev", "industrial",
	"fortified", "cliff_top", "fire", "smoke", "deployment_zone",
}

func (t Terrain) String() string {
	if t >= terrainCount {
		return "none"
	}
	return terrainNames[t]
}

// ParseTerrain maps a board file terrain name to its Terrain.
func ParseTerrain(name string) (Terrain, bool) {
	for i, n := range terrainNames {
		if n == name && i != int(TerrainNone) {
			return Terrain(i), true
		}
	}
	return TerrainNone, false
}

// drawsUnderShadow reports whether the terrain's overlay images belong
// beneath the terrain shadow map.
func drawsUnderShadow(t Terrain) bool {
	switch t {
	case TerrainRoad, TerrainWater, TerrainPavement, TerrainGroundFluff,
		TerrainRough, TerrainRubble, TerrainSnow:
		return true
	default:
		return false
	}
}

// castsOwnShadow reports whether the terrain would be buried under its
// own shadow and needs its top overlay redrawn.
func castsOwnShadow(t Terrain) bool {
	switch t {
	case TerrainBuilding, TerrainWoods:
		return true
	default:
		return false
	}
}

// heightTerrain reports whether the level of t is a structure height.
func heightTerrain(t Terrain) bool {
	switch t {
	case TerrainBldgElev, TerrainBridgeElev, TerrainIndustrial:
		return true
	default:
		return false
	}
}

// TerrainValue is one terrain on a hex. Exits is a direction bitmask,
// bit d set when the feature connects towards direction d.
type TerrainValue struct {
	Kind  Terrain
	Level int
	Exits int
}

// HasExit reports whether the exit bit for dir is set.
func (v TerrainValue) HasExit(dir int) bool {
	return v.Exits&(1<<uint(dir)) != 0
}

// ExitList returns the set exit bits as a list, in ascending order.
func (v TerrainValue) ExitList() []int {
	var out []int
	for b := 0; b < 31; b++ {
		if v.Exits&(1<<uint(b)) != 0 {
			out = append(out, b)
		}
	}
	return out
}
