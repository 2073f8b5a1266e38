package propagation

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/hf-propagation-sim/catalog"
	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/numeric"
)

const (
	// BaselineStrength is the score of a path with no net factor impact.
	BaselineStrength = 50.0
	// ImpactScale converts summed impact into strength points.
	ImpactScale = 30.0
	// SuccessThreshold is the minimum strength for a usable contact.
	SuccessThreshold = 20.0
)

// Evaluator runs the propagation model. The zero value is usable; it
// samples DefaultSampleCount points and draws 16 segments per hop.
type Evaluator struct {
	SampleCount   int
	ArcResolution int
}

// NewEvaluator returns an Evaluator with default settings.
func NewEvaluator() *Evaluator {
	return &Evaluator{SampleCount: DefaultSampleCount, ArcResolution: defaultArcResolution}
}

var defaultEvaluator = NewEvaluator()

// Evaluate runs the model with a default Evaluator.
func Evaluate(req Request) Result {
	return defaultEvaluator.Evaluate(req)
}

// SignalStrength maps summed factor impact to a 0..100 score.
func SignalStrength(factors []Factor) float64 {
	var sum float64
	for _, f := range factors {
		sum += f.Impact
	}
	return numeric.ClampRange(BaselineStrength+sum*ImpactScale, 0, 100)
}

// AnalyzeHops derives the hop structure for a distance on a band.
func AnalyzeHops(distanceKm float64, band catalog.Band) HopAnalysis {
	c := band.Characteristics
	ideal := 1
	if c.TypicalHopDistanceKm > 0 && distanceKm > 0 {
		ideal = int(math.Ceil(distanceKm / c.TypicalHopDistanceKm))
	}
	if ideal < 1 {
		ideal = 1
	}
	return HopAnalysis{
		Ideal:    ideal,
		Actual:   min(ideal, c.MaxHops),
		Max:      c.MaxHops,
		Feasible: ideal <= c.MaxHops,
	}
}

func (e *Evaluator) sampleCount() int {
	if e == nil || e.SampleCount < 2 {
		return DefaultSampleCount
	}
	return e.SampleCount
}

func (e *Evaluator) paths() pathBuilder {
	if e == nil {
		return pathBuilder{arcResolution: defaultArcResolution}
	}
	return pathBuilder{arcResolution: e.ArcResolution}
}

// Evaluate scores one path. It never panics: an unknown band or an invalid
// location yields a failed Result with Failure set.
func (e *Evaluator) Evaluate(req Request) Result {
	mode, ok := ParsePathMode(string(req.PathMode))
	if !ok {
		mode = PathShort
	}
	req.PathMode = mode

	band, ok := catalog.LookupBand(req.BandID)
	if !ok {
		return failure(req, FailureUnknownBand, fmt.Sprintf("unknown band %q", req.BandID))
	}
	if err := req.Source.Validate(); err != nil {
		return failure(req, FailureInvalidLocation, "source: "+err.Error())
	}
	if err := req.Target.Validate(); err != nil {
		return failure(req, FailureInvalidLocation, "target: "+err.Error())
	}

	src, dst := req.Source.Point(), req.Target.Point()
	distance := geo.DistanceKm(src, dst)
	bearing := geo.InitialBearing(src, dst)
	if mode == PathLong {
		distance = geo.LongPathDistanceKm(src, dst)
		bearing = geo.NormalizeBearing(bearing + 180)
	}

	pc := SamplePath(req, e.sampleCount())
	hops := AnalyzeHops(distance, band)
	snap := req.Conditions
	profile := snap.Profile()

	var events []Factor

	maxAbsorption := pc.MaxAbsorption
	if snap.Blackout.AffectsBand(band.ID) {
		if impact := snap.Blackout.Effect(pc.DayFraction); impact.Affected {
			maxAbsorption = numeric.Clamp01(maxAbsorption * impact.AbsorptionMultiplier)
			events = append(events, blackoutFactor(snap.Blackout, impact))
		}
	}

	reflection := pc.AvgFReflection
	if aurora := snap.Aurora.Effect(pc.MaxAbsLatitude, pc.PercentInPolarZone); aurora.Affected {
		reflection *= 1 - aurora.Degradation*0.5
		events = append(events, auroraFactor(snap.Aurora, aurora))
	}

	layer := reflectionLayerF
	viaEs := false
	if es := snap.SporadicE.Effect(band.ID, distance); es.Affected {
		reflection = math.Max(reflection, es.Boost)
		viaEs = true
		layer = reflectionLayerEs
		events = append(events, sporadicEFactor(snap.SporadicE, es))
	}

	factors := []Factor{
		AbsorptionFactor(band, maxAbsorption),
		reflectionFactor(band, reflection, profile.MUFMultiplier, viaEs),
	}
	if f, ok := GreyLineFactor(pc.PercentInGreyLine); ok {
		factors = append(factors, f)
	}
	factors = append(factors, GeometryFactor(hops))
	if f, ok := HopLossFactor(hops); ok {
		factors = append(factors, f)
	}
	factors = append(factors, events...)

	res := Result{
		Factors:         factors,
		PathMode:        mode,
		Hops:            hops,
		DistanceKm:      distance,
		BearingDeg:      bearing,
		Conditions:      pc,
		Request:         req,
		ReflectionLayer: layer,
	}
	return e.finish(res)
}

// finish scores the factor list and draws the path.
func (e *Evaluator) finish(res Result) Result {
	res.SignalStrength = SignalStrength(res.Factors)
	res.Success = res.SignalStrength >= SuccessThreshold
	res.Path = e.paths().build(res.Request.Source.Point(), res.Request.Target.Point(),
		res.PathMode, res.DistanceKm, res.Hops.Actual, res.Success, res.ReflectionLayer)
	res.Summary = summarize(res)
	return res
}

func failure(req Request, reason FailureReason, detail string) Result {
	return Result{
		PathMode: req.PathMode,
		Failure:  reason,
		Request:  req,
		Path:     SignalPath{Type: PathFailed},
		Summary:  detail,
	}
}

func placeLabel(l geo.Location) string {
	switch {
	case l.Name != "":
		return l.Name
	case l.Code != "":
		return l.Code
	default:
		return fmt.Sprintf("%.2f,%.2f", l.Latitude, l.Longitude)
	}
}

func summarize(res Result) string {
	outcome := "no contact"
	if res.Success {
		outcome = "contact possible"
	}
	return fmt.Sprintf("%s %s path %s to %s (%.0f km, %d hop(s)): %s, signal %.0f/100",
		res.Request.BandID, res.PathMode, placeLabel(res.Request.Source), placeLabel(res.Request.Target),
		res.DistanceKm, res.Hops.Actual, outcome, res.SignalStrength)
}
