// Package catalog holds the static band, antenna and power tables and the
// pure modifier functions derived from them.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownBand is returned when a band id is not in the catalog.
var ErrUnknownBand = errors.New("unknown band")

// BandCharacteristics are the propagation parameters of a band. Everything
// except the hop distance and hop count is in [0,1].
type BandCharacteristics struct {
	DayAbsorption        float64 `json:"day_absorption"`
	NightAbsorption      float64 `json:"night_absorption"`
	FLayerReflection     float64 `json:"f_layer_reflection"`
	TypicalHopDistanceKm float64 `json:"typical_hop_distance_km"`
	MaxHops              int     `json:"max_hops"`
}

// Band describes one amateur band.
type Band struct {
	ID              string              `json:"id"`
	CenterFreqMHz   float64             `json:"center_freq_mhz"`
	Characteristics BandCharacteristics `json:"characteristics"`
}

var bands = map[string]Band{
	"160m": {ID: "160m", CenterFreqMHz: 1.9, Characteristics: BandCharacteristics{
		DayAbsorption: 0.95, NightAbsorption: 0.2, FLayerReflection: 0.95, TypicalHopDistanceKm: 800, MaxHops: 3}},
	"80m": {ID: "80m", CenterFreqMHz: 3.6, Characteristics: BandCharacteristics{
		DayAbsorption: 0.9, NightAbsorption: 0.15, FLayerReflection: 0.9, TypicalHopDistanceKm: 1000, MaxHops: 3}},
	"60m": {ID: "60m", CenterFreqMHz: 5.35, Characteristics: BandCharacteristics{
		DayAbsorption: 0.8, NightAbsorption: 0.12, FLayerReflection: 0.85, TypicalHopDistanceKm: 1200, MaxHops: 3}},
	"40m": {ID: "40m", CenterFreqMHz: 7.1, Characteristics: BandCharacteristics{
		DayAbsorption: 0.6, NightAbsorption: 0.1, FLayerReflection: 0.8, TypicalHopDistanceKm: 1500, MaxHops: 4}},
	"30m": {ID: "30m", CenterFreqMHz: 10.12, Characteristics: BandCharacteristics{
		DayAbsorption: 0.4, NightAbsorption: 0.08, FLayerReflection: 0.75, TypicalHopDistanceKm: 2000, MaxHops: 4}},
	"20m": {ID: "20m", CenterFreqMHz: 14.2, Characteristics: BandCharacteristics{
		DayAbsorption: 0.25, NightAbsorption: 0.05, FLayerReflection: 0.7, TypicalHopDistanceKm: 2500, MaxHops: 4}},
	"17m": {ID: "17m", CenterFreqMHz: 18.1, Characteristics: BandCharacteristics{
		DayAbsorption: 0.18, NightAbsorption: 0.04, FLayerReflection: 0.6, TypicalHopDistanceKm: 2800, MaxHops: 4}},
	"15m": {ID: "15m", CenterFreqMHz: 21.2, Characteristics: BandCharacteristics{
		DayAbsorption: 0.12, NightAbsorption: 0.03, FLayerReflection: 0.5, TypicalHopDistanceKm: 3000, MaxHops: 4}},
	"12m": {ID: "12m", CenterFreqMHz: 24.9, Characteristics: BandCharacteristics{
		DayAbsorption: 0.08, NightAbsorption: 0.02, FLayerReflection: 0.4, TypicalHopDistanceKm: 3200, MaxHops: 4}},
	"10m": {ID: "10m", CenterFreqMHz: 28.5, Characteristics: BandCharacteristics{
		DayAbsorption: 0.05, NightAbsorption: 0.02, FLayerReflection: 0.3, TypicalHopDistanceKm: 3500, MaxHops: 4}},
	"6m": {ID: "6m", CenterFreqMHz: 50.1, Characteristics: BandCharacteristics{
		DayAbsorption: 0.02, NightAbsorption: 0.01, FLayerReflection: 0.1, TypicalHopDistanceKm: 2000, MaxHops: 2}},
}

// LookupBand returns the band for id. Bands are returned by value so the
// catalog cannot be mutated through them.
func LookupBand(id string) (Band, bool) {
	b, ok := bands[id]
	return b, ok
}

// MustBand is LookupBand for ids known at compile time.
func MustBand(id string) Band {
	b, ok := bands[id]
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownBand, id))
	}
	return b
}

// Bands returns every band ordered by frequency, lowest first.
func Bands() []Band {
	out := make([]Band, 0, len(bands))
	for _, b := range bands {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CenterFreqMHz < out[j].CenterFreqMHz })
	return out
}

// BandIDs returns the band ids ordered by frequency.
func BandIDs() []string {
	all := Bands()
	ids := make([]string, len(all))
	for i, b := range all {
		ids[i] = b.ID
	}
	return ids
}

// FrequencyDifficulty is how hard the band is for the F layer to return:
// zero at and below 10 MHz, rising by one per 20 MHz above it.
func (b Band) FrequencyDifficulty() float64 {
	d := (b.CenterFreqMHz - 10) / 20
	if d < 0 {
		return 0
	}
	return d
}
