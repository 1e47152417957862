// Package decision converts sensor-free crop signals into a single recommended action.
// It owns the categorical codec, feature building, the ordered rule table, the
// classifier adapter with its rule fallback, reasoning text, and the derived
// quantities (progress, stage, health, water) attached to a recommendation.
//
// Nothing in this package performs I/O. A loaded ModelBundle is read-only and an
// Engine may be shared across goroutines.
package decision

import "strings"

// enumeration is an ordered label table where a label's code is its index.
type enumeration[T ~string] struct {
	labels   []T
	fallback T
}

func (e enumeration[T]) parse(s string) T {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if e.valid(v) {
		return v
	}
	return e.fallback
}

func (e enumeration[T]) valid(v T) bool {
	return e.index(v) >= 0
}

func (e enumeration[T]) index(v T) int {
	for i, l := range e.labels {
		if l == v {
			return i
		}
	}
	return -1
}

func (e enumeration[T]) code(v T) int {
	if i := e.index(v); i >= 0 {
		return i
	}
	return e.index(e.fallback)
}

func (e enumeration[T]) decode(c int) T {
	if c < 0 || c >= len(e.labels) {
		return e.fallback
	}
	return e.labels[c]
}

// Health is the visual health of a planting.
type Health string

const (
	HealthExcellent Health = "excellent"
	HealthGood      Health = "good"
	HealthFair      Health = "fair"
	HealthPoor      Health = "poor"
)

var healthCodec = enumeration[Health]{
	labels:   []Health{HealthExcellent, HealthGood, HealthFair, HealthPoor},
	fallback: HealthGood,
}

// ParseHealth normalizes s, returning HealthGood for unknown input.
func ParseHealth(s string) Health { return healthCodec.parse(s) }

// DecodeHealth returns the label for code c, or HealthGood when out of range.
func DecodeHealth(c int) Health { return healthCodec.decode(c) }

// Code returns the ordinal of h, or the default's ordinal when h is not a known label.
func (h Health) Code() int { return healthCodec.code(h) }

// Valid reports whether h is a known Health label.
func (h Health) Valid() bool { return healthCodec.valid(h) }

// PestPressure is the observed pest presence level.
type PestPressure string

const (
	PestNone   PestPressure = "none"
	PestLow    PestPressure = "low"
	PestMedium PestPressure = "medium"
	PestHigh   PestPressure = "high"
)

var pestCodec = enumeration[PestPressure]{
	labels:   []PestPressure{PestNone, PestLow, PestMedium, PestHigh},
	fallback: PestNone,
}

// ParsePestPressure normalizes s, returning PestNone for unknown input.
func ParsePestPressure(s string) PestPressure { return pestCodec.parse(s) }

// DecodePestPressure returns the label for code c, or PestNone when out of range.
func DecodePestPressure(c int) PestPressure { return pestCodec.decode(c) }

// Code returns the ordinal of p, or the default's ordinal when p is not a known label.
func (p PestPressure) Code() int { return pestCodec.code(p) }

// Valid reports whether p is a known PestPressure label.
func (p PestPressure) Valid() bool { return pestCodec.valid(p) }

// GrowthStage is the ordered seedling to mature progression.
type GrowthStage string

const (
	StageSeedling   GrowthStage = "seedling"
	StageVegetative GrowthStage = "vegetative"
	StageFlowering  GrowthStage = "flowering"
	StageMature     GrowthStage = "mature"
)

var stageCodec = enumeration[GrowthStage]{
	labels:   []GrowthStage{StageSeedling, StageVegetative, StageFlowering, StageMature},
	fallback: StageSeedling,
}

// ParseGrowthStage normalizes s, returning StageSeedling for unknown input.
func ParseGrowthStage(s string) GrowthStage { return stageCodec.parse(s) }

// DecodeGrowthStage returns the label for code c, or StageSeedling when out of range.
func DecodeGrowthStage(c int) GrowthStage { return stageCodec.decode(c) }

// Code returns the ordinal of g, or the default's ordinal when g is not a known label.
func (g GrowthStage) Code() int { return stageCodec.code(g) }

// Valid reports whether g is a known GrowthStage label.
func (g GrowthStage) Valid() bool { return stageCodec.valid(g) }

// Sky is the weather category derived from a forecast description.
type Sky string

const (
	SkySunny  Sky = "sunny"
	SkyCloudy Sky = "cloudy"
	SkyRainy  Sky = "rainy"
	SkyStorm  Sky = "storm"
)

var skyCodec = enumeration[Sky]{
	labels:   []Sky{SkySunny, SkyCloudy, SkyRainy, SkyStorm},
	fallback: SkySunny,
}

// ParseSky normalizes s, returning SkySunny for unknown input.
func ParseSky(s string) Sky { return skyCodec.parse(s) }

// DecodeSky returns the label for code c, or SkySunny when out of range.
func DecodeSky(c int) Sky { return skyCodec.decode(c) }

// Code returns the ordinal of s, or the default's ordinal when s is not a known label.
func (s Sky) Code() int { return skyCodec.code(s) }

// Valid reports whether s is a known Sky label.
func (s Sky) Valid() bool { return skyCodec.valid(s) }

// TemperatureBand buckets an air temperature into five ordered categories.
type TemperatureBand string

const (
	TempCold    TemperatureBand = "cold"
	TempCool    TemperatureBand = "cool"
	TempOptimal TemperatureBand = "optimal"
	TempWarm    TemperatureBand = "warm"
	TempHot     TemperatureBand = "hot"
)

var temperatureCodec = enumeration[TemperatureBand]{
	labels:   []TemperatureBand{TempCold, TempCool, TempOptimal, TempWarm, TempHot},
	fallback: TempOptimal,
}

// ParseTemperatureBand normalizes s, returning TempOptimal for unknown input.
func ParseTemperatureBand(s string) TemperatureBand { return temperatureCodec.parse(s) }

// DecodeTemperatureBand returns the label for code c, or TempOptimal when out of range.
func DecodeTemperatureBand(c int) TemperatureBand { return temperatureCodec.decode(c) }

// Code returns the ordinal of t, or the default's ordinal when t is not a known label.
func (t TemperatureBand) Code() int { return temperatureCodec.code(t) }

// Valid reports whether t is a known TemperatureBand label.
func (t TemperatureBand) Valid() bool { return temperatureCodec.valid(t) }

// Action is the agronomic action a recommendation asks for.
type Action string

const (
	ActionNone      Action = "no_action"
	ActionIrrigate  Action = "irrigate"
	ActionFertilize Action = "fertilize"
	ActionPesticide Action = "pesticide"
	ActionMonitor   Action = "monitor"
	ActionHarvest   Action = "harvest"
)

var actionCodec = enumeration[Action]{
	labels: []Action{
		ActionNone, ActionIrrigate, ActionFertilize,
		ActionPesticide, ActionMonitor, ActionHarvest,
	},
	fallback: ActionNone,
}

// ActionCount is the number of classes a classifier must produce.
const ActionCount = 6

// ParseAction normalizes s, returning ActionNone for unknown input.
func ParseAction(s string) Action { return actionCodec.parse(s) }

// DecodeAction returns the label for code c, or ActionNone when out of range.
func DecodeAction(c int) Action { return actionCodec.decode(c) }

// Code returns the ordinal of a, or the default's ordinal when a is not a known label.
func (a Action) Code() int { return actionCodec.code(a) }

// Valid reports whether a is a known Action label.
func (a Action) Valid() bool { return actionCodec.valid(a) }

// LeafColor is a nominal observation category; it has no numeric code.
type LeafColor string

const (
	LeafDarkGreen  LeafColor = "dark_green"
	LeafGreen      LeafColor = "green"
	LeafLightGreen LeafColor = "light_green"
	LeafYellow     LeafColor = "yellow"
	LeafBrown      LeafColor = "brown"
)

var leafColors = enumeration[LeafColor]{
	labels: []LeafColor{LeafDarkGreen, LeafGreen, LeafLightGreen, LeafYellow, LeafBrown},
}

// Valid reports whether l is a known LeafColor label.
func (l LeafColor) Valid() bool { return leafColors.valid(l) }

// SoilMoisture is the estimated soil moisture from a field visit.
type SoilMoisture string

const (
	MoistureDry         SoilMoisture = "dry"
	MoistureMoist       SoilMoisture = "moist"
	MoistureWet         SoilMoisture = "wet"
	MoistureWaterlogged SoilMoisture = "waterlogged"
)

var soilMoistures = enumeration[SoilMoisture]{
	labels: []SoilMoisture{MoistureDry, MoistureMoist, MoistureWet, MoistureWaterlogged},
}

// Valid reports whether m is a known SoilMoisture label.
func (m SoilMoisture) Valid() bool { return soilMoistures.valid(m) }

// GrowthVigor is the observed growth vigor.
type GrowthVigor string

const (
	VigorVigorous GrowthVigor = "vigorous"
	VigorNormal   GrowthVigor = "normal"
	VigorSlow     GrowthVigor = "slow"
	VigorStunted  GrowthVigor = "stunted"
)

var growthVigors = enumeration[GrowthVigor]{
	labels: []GrowthVigor{VigorVigorous, VigorNormal, VigorSlow, VigorStunted},
}

// Valid reports whether v is a known GrowthVigor label.
func (v GrowthVigor) Valid() bool { return growthVigors.valid(v) }
