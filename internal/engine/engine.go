// Package engine implements the kinematic speed-profile simulation.
//
// A run has two passes over the track, both starting at rest:
//
//  1. Forward pass - the train accelerates from the start of the track
//     toward each segment's limit, one resolution step at a time.
//
//  2. Backward pass - the same walk from the far end captures where the
//     train must begin braking for every lower limit ahead of it.
//
// The profile is the position-wise minimum of the forward samples and the
// reversed backward samples.
package engine

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/cxd309/trainspeedsim/internal/kinematics"
	"github.com/cxd309/trainspeedsim/internal/track"
	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/train"
	"github.com/cxd309/trainspeedsim/internal/units"
)

var log = logrus.WithField("module", "engine")

// Tolerances for position alignment and segment divisibility, in small units.
const (
	absTol = 1e-6
	relTol = 1e-12
)

// Simulation computes the speed profile of one train over one track.
type Simulation struct {
	meta  SimulationMeta
	track *track.Track
	train *train.Train
}

// NewSimulation checks that model and resolution can drive a run over t:
// the model must have a positive acceleration, and the resolution must be
// a positive integer that evenly divides every segment with length.
func NewSimulation(t *track.Track, model kinematics.MotionModel, resolution float64) (*Simulation, error) {
	const op = "new simulation"
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !(resolution > 0) || math.IsInf(resolution, 0) || resolution != math.Trunc(resolution) {
		return nil, trackerr.New(trackerr.KindValue, op, "resolution must be a positive integer, got %v", resolution)
	}
	if t.Len() == 0 {
		return nil, trackerr.New(trackerr.KindStructural, op, "no track segments exist")
	}
	for _, seg := range t.Segments() {
		if seg.IsZeroLength() {
			continue
		}
		length := seg.Length().Value()
		if !divides(resolution, length) {
			return nil, trackerr.New(trackerr.KindValue, op, "resolution %v %s does not divide segment %d length %v",
				resolution, t.System().Distance(), seg.Index(), seg.Length())
		}
	}

	tr, err := train.New(t, model, resolution)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Simulation{
		meta: SimulationMeta{
			SimulationID: uuid.NewString(),
			Units:        t.System(),
			Resolution:   resolution,
		},
		track: t,
		train: tr,
	}, nil
}

func divides(res, length float64) bool {
	return scalar.EqualWithinAbsOrRel(math.Round(length/res)*res, length, absTol, relTol)
}

// Meta describes the run.
func (s *Simulation) Meta() SimulationMeta { return s.meta }

// Run executes both passes and returns the profile in small units, framed
// by the train at rest on either end of the track. Consecutive duplicate
// samples are collapsed.
func (s *Simulation) Run() ([]Sample, error) {
	first, err := s.track.FirstSeg()
	if err != nil {
		return nil, err
	}
	last, err := s.track.LastSeg()
	if err != nil {
		return nil, err
	}
	fwd, err := s.pass(track.Forward)
	if err != nil {
		return nil, fmt.Errorf("forward pass: %w", err)
	}
	bwd, err := s.pass(track.Backward)
	if err != nil {
		return nil, fmt.Errorf("backward pass: %w", err)
	}
	if len(fwd) != len(bwd) {
		trackerr.Fatalf("run", "forward pass has %d samples, backward pass %d", len(fwd), len(bwd))
	}
	bwd = lo.Reverse(bwd)

	profile := []Sample{{Pos: first.Start().Value()}}
	emit := func(p Sample) {
		if p != profile[len(profile)-1] {
			profile = append(profile, p)
		}
	}
	for i, f := range fwd {
		b := bwd[i]
		if !scalar.EqualWithinAbsOrRel(f.Pos, b.Pos, absTol, relTol) {
			trackerr.Fatalf("run", "sample %d: forward position %v does not match backward position %v", i, f.Pos, b.Pos)
		}
		emit(Sample{Pos: f.Pos, Speed: math.Min(f.Speed, b.Speed)})
	}
	emit(Sample{Pos: last.End().Value()})

	log.WithFields(logrus.Fields{
		"simulation_id": s.meta.SimulationID,
		"samples":       len(profile),
	}).Info("simulation finished")
	return profile, nil
}

// pass walks the whole track in direction d, recording the train after
// every event except the one that brings it to the far end.
func (s *Simulation) pass(d track.Direction) ([]Sample, error) {
	if err := s.train.SetDir(d); err != nil {
		return nil, err
	}
	var out []Sample
	for !s.train.AtEndOfTrack() {
		s.train.TravelSeg()
		if !s.train.AtEndOfTrack() {
			out = append(out, Sample{Pos: s.train.Pos(), Speed: s.train.Speed()})
		}
	}
	log.Debugf("pass %v: %d samples", d, len(out))
	return out, nil
}

// Log converts a profile to big units under the simulation's metadata.
func (s *Simulation) Log(profile []Sample) (SimulationLog, error) {
	sys := s.meta.Units
	out := make([]ProfilePoint, 0, len(profile))
	for _, p := range profile {
		mp, err := units.MustNew(p.Pos, sys.Distance()).Display()
		if err != nil {
			return SimulationLog{}, err
		}
		v, err := units.MustNew(p.Speed, sys.Speed()).Display()
		if err != nil {
			return SimulationLog{}, err
		}
		out = append(out, ProfilePoint{Milepost: mp.Value(), Speed: v.Value()})
	}
	return SimulationLog{
		Meta:         s.meta,
		DistanceUnit: sys.BigDistance(),
		SpeedUnit:    sys.BigSpeed(),
		Output:       out,
	}, nil
}

// Simulate builds a simulation from input, runs it and returns its log.
func Simulate(input SimulationInput) (SimulationLog, error) {
	sys, err := units.ParseSystem(string(input.Meta.Units))
	if err != nil {
		return SimulationLog{}, err
	}
	if input.Vehicle.Kinem == nil {
		return SimulationLog{}, fmt.Errorf("vehicle %q: no kinematics model", input.Vehicle.Name)
	}
	t, err := track.FromControlPoints(input.ControlPoints, sys)
	if err != nil {
		return SimulationLog{}, fmt.Errorf("building track: %w", err)
	}
	sim, err := NewSimulation(t, input.Vehicle.Kinem, input.Meta.Resolution)
	if err != nil {
		return SimulationLog{}, err
	}
	if input.Meta.SimulationID != "" {
		sim.meta.SimulationID = input.Meta.SimulationID
	}
	profile, err := sim.Run()
	if err != nil {
		return SimulationLog{}, err
	}
	return sim.Log(profile)
}

// RunJSON is the entry point shared by the CLI and WASM targets.
// It accepts a JSON-encoded SimulationInput, runs the simulation, and returns a
// JSON-encoded SimulationLog.
func RunJSON(jsonInput string) (string, error) {
	var input SimulationInput
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}

	simLog, err := Simulate(input)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(simLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
