package propagation

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/signalsfoundry/hf-propagation-sim/catalog"
	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
)

var (
	vienna     = geo.Location{Latitude: 48.21, Longitude: 16.37, Name: "Vienna", Code: "VIE"}
	berlin     = geo.Location{Latitude: 52.52, Longitude: 13.41, Name: "Berlin", Code: "BER"}
	sydney     = geo.Location{Latitude: -33.87, Longitude: 151.21, Name: "Sydney", Code: "SYD"}
	rome       = geo.Location{Latitude: 41.9, Longitude: 12.5, Name: "Rome", Code: "ROM"}
	paris      = geo.Location{Latitude: 48.86, Longitude: 2.35, Name: "Paris", Code: "PAR"}
	tromso     = geo.Location{Latitude: 69.65, Longitude: 18.96, Name: "Tromsø", Code: "TOS"}
	bratislava = geo.Location{Latitude: 48.15, Longitude: 17.11, Name: "Bratislava", Code: "BTS"}
	newYork    = geo.Location{Latitude: 40.71, Longitude: -74.0, Name: "New York", Code: "NYC"}

	winterMidnight = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	winterNoon     = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	summerNoon     = time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC)
	summerMorning  = time.Date(2024, time.June, 21, 11, 0, 0, 0, time.UTC)
)

func request(src, dst geo.Location, band string, at time.Time) Request {
	return Request{Source: src, Target: dst, BandID: band, Time: at, PathMode: PathShort}
}

func mustFactor(t *testing.T, r Result, kind FactorKind) Factor {
	t.Helper()
	f, ok := r.Factor(kind)
	if !ok {
		t.Fatalf("result has no %s factor: %+v", kind, r.Factors)
	}
	return f
}

func TestEvaluateIsDeterministic(t *testing.T) {
	req := request(vienna, sydney, "20m", summerNoon)
	req.Conditions = spaceweather.Snapshot{
		Activity: spaceweather.ActivityActive,
		Aurora:   spaceweather.AuroraState{Active: true, Severity: spaceweather.SeverityMinor},
	}

	first := Evaluate(req)
	second := Evaluate(req)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Evaluate not deterministic (-first +second):\n%s", diff)
	}
}

func TestViennaSydneyTwentyMetersFails(t *testing.T) {
	for _, at := range []time.Time{winterNoon, summerNoon} {
		res := Evaluate(request(vienna, sydney, "20m", at))
		if res.Success {
			t.Fatalf("%v: Success = true (strength %.1f), want false", at, res.SignalStrength)
		}
		if res.Hops.Feasible {
			t.Fatalf("%v: Hops = %+v, want infeasible", at, res.Hops)
		}
		if g := mustFactor(t, res, FactorGeometry); g.Impact != -0.8 {
			t.Fatalf("%v: geometry impact = %v, want -0.8", at, g.Impact)
		}
		if res.Path.Type != PathFailed {
			t.Fatalf("%v: path type = %s, want %s", at, res.Path.Type, PathFailed)
		}
		if l := mustFactor(t, res, FactorHopLoss); math.Abs(l.Impact+maxHopLoss) > 1e-9 {
			t.Fatalf("%v: hop loss impact = %v, want %v", at, l.Impact, -maxHopLoss)
		}
	}
}

func TestFeasibleMultiHopScoresOnCoreFactors(t *testing.T) {
	res := Evaluate(request(vienna, newYork, "20m", summerNoon))
	if !res.Hops.Feasible || res.Hops.Ideal != 3 {
		t.Fatalf("Hops = %+v, want feasible 3-hop path", res.Hops)
	}
	if _, ok := res.Factor(FactorHopLoss); ok {
		t.Fatalf("feasible path carries a hop-loss factor: %+v", res.Factors)
	}

	sum := 0.0
	for _, kind := range []FactorKind{FactorAbsorption, FactorReflection, FactorGreyLine, FactorGeometry} {
		if f, ok := res.Factor(kind); ok {
			sum += f.Impact
		}
	}
	want := math.Max(0, math.Min(100, BaselineStrength+sum*ImpactScale))
	if math.Abs(res.SignalStrength-want) > 1e-9 {
		t.Fatalf("SignalStrength = %v, want %v from core factors", res.SignalStrength, want)
	}
}

func TestViennaBerlinFortyMetersAtNightSucceeds(t *testing.T) {
	res := Evaluate(request(vienna, berlin, "40m", winterMidnight))
	if !res.Success {
		t.Fatalf("Success = false (strength %.1f), want true", res.SignalStrength)
	}
	if res.SignalStrength < 70 || res.SignalStrength > 100 {
		t.Fatalf("SignalStrength = %.1f, want within [70, 100]", res.SignalStrength)
	}
	if res.Path.Type != PathSingleHop {
		t.Fatalf("path type = %s, want %s", res.Path.Type, PathSingleHop)
	}
	if math.Abs(res.DistanceKm-523) > 5 {
		t.Fatalf("DistanceKm = %.1f, want about 523", res.DistanceKm)
	}
}

func TestResultAlwaysCarriesCoreFactors(t *testing.T) {
	res := Evaluate(request(vienna, berlin, "20m", summerNoon))
	for _, kind := range []FactorKind{FactorAbsorption, FactorReflection, FactorGeometry} {
		mustFactor(t, res, kind)
	}
	if got := SignalStrength(res.Factors); got != res.SignalStrength {
		t.Fatalf("SignalStrength(factors) = %v, result has %v", got, res.SignalStrength)
	}
	if res.Success != (res.SignalStrength >= SuccessThreshold) {
		t.Fatalf("Success = %v with strength %.1f", res.Success, res.SignalStrength)
	}
}

func TestSevereBlackoutClosesDaySideEightyMeters(t *testing.T) {
	req := request(vienna, rome, "80m", summerMorning)
	quiet := Evaluate(req)

	req.Conditions.Blackout = spaceweather.BlackoutState{Active: true, Severity: spaceweather.SeveritySevere}
	flare := Evaluate(req)

	if flare.Success {
		t.Fatalf("Success = true (strength %.1f) during severe blackout", flare.SignalStrength)
	}
	if flare.SignalStrength >= quiet.SignalStrength {
		t.Fatalf("blackout strength %.1f, want below quiet %.1f", flare.SignalStrength, quiet.SignalStrength)
	}
	if f := mustFactor(t, flare, FactorBlackout); f.Impact >= 0 {
		t.Fatalf("blackout impact = %v, want negative", f.Impact)
	}
}

func TestBlackoutSparesNightPaths(t *testing.T) {
	req := request(vienna, berlin, "40m", winterMidnight)
	quiet := Evaluate(req)

	req.Conditions.Blackout = spaceweather.BlackoutState{Active: true, Severity: spaceweather.SeveritySevere}
	flare := Evaluate(req)

	if _, ok := flare.Factor(FactorBlackout); ok {
		t.Fatal("night path carries a blackout factor")
	}
	if flare.SignalStrength != quiet.SignalStrength {
		t.Fatalf("night strength = %.1f during blackout, want %.1f", flare.SignalStrength, quiet.SignalStrength)
	}
}

func TestSporadicERaisesSixMeters(t *testing.T) {
	req := request(vienna, paris, "6m", summerNoon)
	base := Evaluate(req)

	req.Conditions.SporadicE = spaceweather.SporadicEState{Active: true, Intensity: spaceweather.IntensityStrong}
	es := Evaluate(req)

	if es.SignalStrength <= base.SignalStrength {
		t.Fatalf("Es strength %.1f, want above %.1f", es.SignalStrength, base.SignalStrength)
	}
	if f := mustFactor(t, es, FactorSporadicE); f.Impact <= 0 {
		t.Fatalf("sporadic-E impact = %v, want positive", f.Impact)
	}
	if es.ReflectionLayer != reflectionLayerEs {
		t.Fatalf("ReflectionLayer = %q, want %q", es.ReflectionLayer, reflectionLayerEs)
	}
	if len(es.Path.Hops) == 0 || es.Path.Hops[0].ReflectionLayer != reflectionLayerEs {
		t.Fatalf("path hops = %+v, want Es reflection", es.Path.Hops)
	}
	if refl := mustFactor(t, es, FactorReflection); refl.Impact != 0.5 {
		t.Fatalf("reflection impact with Es = %v, want 0.5", refl.Impact)
	}
}

func TestSporadicEIgnoresLowBands(t *testing.T) {
	req := request(vienna, paris, "80m", summerNoon)
	req.Conditions.SporadicE = spaceweather.SporadicEState{Active: true, Intensity: spaceweather.IntensityStrong}
	res := Evaluate(req)
	if _, ok := res.Factor(FactorSporadicE); ok {
		t.Fatal("80m result carries a sporadic-E factor")
	}
	if res.ReflectionLayer != reflectionLayerF {
		t.Fatalf("ReflectionLayer = %q, want F", res.ReflectionLayer)
	}
}

func TestAuroraDegradesPolarPath(t *testing.T) {
	req := request(vienna, tromso, "20m", winterMidnight)
	quiet := Evaluate(req)

	req.Conditions.Aurora = spaceweather.AuroraState{Active: true, Severity: spaceweather.SeveritySevere}
	aurora := Evaluate(req)

	if aurora.SignalStrength >= quiet.SignalStrength {
		t.Fatalf("aurora strength %.1f, want below %.1f", aurora.SignalStrength, quiet.SignalStrength)
	}
	if f := mustFactor(t, aurora, FactorAurora); f.Impact >= 0 || f.Value <= 0 {
		t.Fatalf("aurora factor = %+v, want negative impact and flutter", f)
	}
}

func TestStormWeakensDaytimePath(t *testing.T) {
	req := request(vienna, tromso, "20m", winterNoon)
	normal := Evaluate(req)

	req.Conditions.Activity = spaceweather.ActivityStorm
	storm := Evaluate(req)

	if storm.SignalStrength >= normal.SignalStrength {
		t.Fatalf("storm strength %.1f, want below normal %.1f", storm.SignalStrength, normal.SignalStrength)
	}
}

func TestShortAndLongPathDistancesComplement(t *testing.T) {
	req := request(vienna, sydney, "20m", summerNoon)
	short := Evaluate(req)
	req.PathMode = PathLong
	long := Evaluate(req)

	if long.PathMode != PathLong {
		t.Fatalf("PathMode = %s, want long", long.PathMode)
	}
	if sum := short.DistanceKm + long.DistanceKm; math.Abs(sum-geo.EarthCircumferenceKm) > 1e-6 {
		t.Fatalf("short+long = %v, want %v", sum, geo.EarthCircumferenceKm)
	}
	if diff := geo.AngularDifference(short.BearingDeg, long.BearingDeg); math.Abs(diff-180) > 1e-9 {
		t.Fatalf("bearing difference = %v, want 180", diff)
	}
}

func TestUnknownPathModeFallsBackToShort(t *testing.T) {
	req := request(vienna, berlin, "40m", winterMidnight)
	req.PathMode = "sideways"
	if res := Evaluate(req); res.PathMode != PathShort {
		t.Fatalf("PathMode = %s, want short", res.PathMode)
	}
}

func TestUnknownBandIsFailureResult(t *testing.T) {
	res := Evaluate(request(vienna, berlin, "11m", winterMidnight))
	if res.Failure != FailureUnknownBand {
		t.Fatalf("Failure = %q, want %q", res.Failure, FailureUnknownBand)
	}
	if res.Success || res.SignalStrength != 0 || len(res.Factors) != 0 {
		t.Fatalf("unknown band result = %+v, want empty failure", res)
	}
}

func TestInvalidLocationIsFailureResult(t *testing.T) {
	bad := geo.Location{Latitude: 95, Longitude: 0}
	res := Evaluate(request(bad, berlin, "40m", winterMidnight))
	if res.Failure != FailureInvalidLocation {
		t.Fatalf("Failure = %q, want %q", res.Failure, FailureInvalidLocation)
	}
	if res.Success {
		t.Fatal("invalid location reported success")
	}
}

func TestAbsorptionFactorIsMonotonic(t *testing.T) {
	for _, band := range catalog.Bands() {
		prev := math.Inf(1)
		for a := 0.0; a <= 1.0; a += 0.01 {
			f := AbsorptionFactor(band, a)
			if f.Impact > prev {
				t.Fatalf("%s: impact rose from %v to %v at absorption %v", band.ID, prev, f.Impact, a)
			}
			prev = f.Impact
		}
	}
}

func TestReflectionFactorThresholds(t *testing.T) {
	twenty := catalog.MustBand("20m")
	ten := catalog.MustBand("10m")

	tests := []struct {
		name       string
		band       catalog.Band
		reflection float64
		muf        float64
		want       float64
	}{
		{"excellent", twenty, 0.9, 1, 0.5},
		{"good", twenty, 0.6, 1, 0.2},
		{"weak", twenty, 0.3, 1, -0.2},
		{"through", ten, 0.9, 1, -1.0},
		{"storm raises difficulty", twenty, 0.25, 0.75, -1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReflectionFactor(tt.band, tt.reflection, tt.muf).Impact; got != tt.want {
				t.Fatalf("impact = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGreyLineFactorBuckets(t *testing.T) {
	if _, ok := GreyLineFactor(0); ok {
		t.Fatal("GreyLineFactor(0) produced a factor")
	}
	for pct, want := range map[float64]float64{0.1: 0.1, 0.3: 0.3, 0.6: 0.6} {
		f, ok := GreyLineFactor(pct)
		if !ok || f.Impact != want {
			t.Fatalf("GreyLineFactor(%v) = %v, %v; want %v", pct, f.Impact, ok, want)
		}
	}
}

func TestHopAnalysisAndLoss(t *testing.T) {
	twenty := catalog.MustBand("20m")

	h := AnalyzeHops(16000, twenty)
	if h.Ideal != 7 || h.Actual != 4 || h.Feasible {
		t.Fatalf("AnalyzeHops(16000) = %+v", h)
	}
	if f, ok := HopLossFactor(h); !ok || math.Abs(f.Impact+maxHopLoss) > 1e-9 || f.Value != 3 {
		t.Fatalf("HopLossFactor(7 of 4 hops) = %+v, %v; want impact %v over 3 extra hops", f, ok, -maxHopLoss)
	}

	h = AnalyzeHops(9000, twenty)
	if h.Ideal != 4 || !h.Feasible {
		t.Fatalf("AnalyzeHops(9000) = %+v", h)
	}
	if _, ok := HopLossFactor(h); ok {
		t.Fatal("feasible 4-hop path produced a hop-loss factor")
	}

	h = AnalyzeHops(6000, twenty)
	if h.Ideal != 3 || !h.Feasible {
		t.Fatalf("AnalyzeHops(6000) = %+v", h)
	}
	if _, ok := HopLossFactor(h); ok {
		t.Fatal("feasible 3-hop path produced a hop-loss factor")
	}

	if _, ok := HopLossFactor(AnalyzeHops(100, twenty)); ok {
		t.Fatal("single hop produced a hop-loss factor")
	}
}

func TestSignalStrengthClamps(t *testing.T) {
	if got := SignalStrength([]Factor{{Impact: 5}}); got != 100 {
		t.Fatalf("SignalStrength(+5) = %v, want 100", got)
	}
	if got := SignalStrength([]Factor{{Impact: -5}}); got != 0 {
		t.Fatalf("SignalStrength(-5) = %v, want 0", got)
	}
	if got := SignalStrength(nil); got != BaselineStrength {
		t.Fatalf("SignalStrength(nil) = %v, want %v", got, BaselineStrength)
	}
}

func TestFactorKindKeys(t *testing.T) {
	for kind, key := range factorKeys {
		if kind.String() != key {
			t.Fatalf("%d.String() = %q, want %q", kind, kind.String(), key)
		}
		got, ok := ParseFactorKind(key)
		if !ok || got != kind {
			t.Fatalf("ParseFactorKind(%q) = %v, %v", key, got, ok)
		}
	}
	if _, err := FactorKind(99).MarshalText(); err == nil {
		t.Fatal("MarshalText accepted an unknown kind")
	}
}
