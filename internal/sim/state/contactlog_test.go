package state

import (
	"testing"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
)

func TestContactLogRecordsAndCopies(t *testing.T) {
	log := NewContactLog(0)
	req := propagation.Request{Source: vienna, Target: berlin, BandID: "40m", Time: winterMidnight, PathMode: propagation.PathShort}

	log.Record(propagation.Result{Success: true, SignalStrength: 71, PathMode: propagation.PathShort, Request: req})
	log.Record(propagation.Result{Success: false, SignalStrength: 12, PathMode: propagation.PathShort, Request: req})
	log.Record(propagation.Result{Failure: propagation.FailureUnknownBand, Request: req})

	key := ContactKey(vienna, berlin, "40m", propagation.PathShort)
	rec, ok := log.Get(key)
	if !ok {
		t.Fatalf("Get(%q) missing", key)
	}
	if rec.Evaluations != 2 || rec.Openings != 1 || rec.LastStrength != 12 || rec.LastSuccess {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Source != "Vienna" || rec.Target != "Berlin" {
		t.Fatalf("labels = %q -> %q", rec.Source, rec.Target)
	}

	rec.Evaluations = 99
	if again, _ := log.Get(key); again.Evaluations != 2 {
		t.Fatal("Get returned a shared record")
	}

	log.Reset()
	if len(log.List()) != 0 {
		t.Fatal("Reset left records")
	}
}

func TestContactLogEvictsLeastRecentPath(t *testing.T) {
	log := NewContactLog(2)
	at := func(src geo.Location) propagation.Result {
		req := propagation.Request{Source: src, Target: berlin, BandID: "40m", Time: winterMidnight, PathMode: propagation.PathShort}
		return propagation.Result{Success: true, SignalStrength: 60, PathMode: propagation.PathShort, Request: req}
	}

	log.Record(at(vienna))
	log.Record(at(rome))
	log.Record(at(vienna))
	log.Record(at(geo.Location{Latitude: 50, Longitude: 14, Code: "PRG"}))

	if got := log.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if _, ok := log.Get(ContactKey(rome, berlin, "40m", propagation.PathShort)); ok {
		t.Fatal("least recently evaluated path survived")
	}
	if rec, ok := log.Get(ContactKey(vienna, berlin, "40m", propagation.PathShort)); !ok || rec.Evaluations != 2 {
		t.Fatalf("vienna record = %+v, %v", rec, ok)
	}
}

func TestContactKeyFallsBackToCoordinates(t *testing.T) {
	a := geo.Location{Latitude: 1.5, Longitude: -2.25}
	b := geo.Location{Latitude: 3, Longitude: 4}
	if got, want := ContactKey(a, b, "20m", propagation.PathLong), "20m/long/1.5000,-2.2500>3.0000,4.0000"; got != want {
		t.Fatalf("ContactKey = %q, want %q", got, want)
	}
}
