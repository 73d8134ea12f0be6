package engine

import (
	"github.com/cxd309/trainspeedsim/internal/track"
	"github.com/cxd309/trainspeedsim/internal/train"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// SimulationMeta holds the identity and discretisation parameters for a
// simulation run.
type SimulationMeta struct {
	SimulationID string       `json:"simulation_id" msgpack:"simulation_id"`
	Units        units.System `json:"units" msgpack:"units"`
	Resolution   float64      `json:"resolution" msgpack:"resolution"` // small distance unit
}

// SimulationInput is the JSON-serialisable input to the engine. Control
// points are in big units; vehicle rates are in the system's acceleration
// unit.
type SimulationInput struct {
	Meta          SimulationMeta       `json:"simulation_meta"`
	Vehicle       train.Vehicle        `json:"vehicle"`
	ControlPoints []track.ControlPoint `json:"control_points"`
}

// Sample is one point of a speed profile in the track's small units.
type Sample struct {
	Pos   float64
	Speed float64
}

// ProfilePoint is one point of a speed profile in big units.
type ProfilePoint struct {
	Milepost float64 `json:"milepost" msgpack:"milepost"`
	Speed    float64 `json:"speed" msgpack:"speed"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta         SimulationMeta `json:"simulation_meta" msgpack:"simulation_meta"`
	DistanceUnit units.Unit     `json:"distance_unit" msgpack:"distance_unit"`
	SpeedUnit    units.Unit     `json:"speed_unit" msgpack:"speed_unit"`
	Output       []ProfilePoint `json:"output" msgpack:"output"`
}
