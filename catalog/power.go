package catalog

import "sort"

// DefaultPowerID is used whenever a power id is unknown.
const DefaultPowerID = "standard"

// PowerLevel is a transmit power setting expressed relative to 100 W.
type PowerLevel struct {
	ID      string  `json:"id"`
	Watts   float64 `json:"watts"`
	BonusDB float64 `json:"bonus_db"`
}

var powerLevels = map[string]PowerLevel{
	"qrp":      {ID: "qrp", Watts: 5, BonusDB: -13},
	"standard": {ID: "standard", Watts: 100, BonusDB: 0},
	"high":     {ID: "high", Watts: 1000, BonusDB: 10},
}

// LookupPower returns the power level for id, falling back to standard.
func LookupPower(id string) (PowerLevel, bool) {
	if p, ok := powerLevels[id]; ok {
		return p, true
	}
	return powerLevels[DefaultPowerID], false
}

// PowerLevels returns every power level ordered by wattage.
func PowerLevels() []PowerLevel {
	out := make([]PowerLevel, 0, len(powerLevels))
	for _, p := range powerLevels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Watts < out[j].Watts })
	return out
}
