package units

import (
	"math/big"

	"github.com/cxd309/trainspeedsim/internal/graph"
)

// Unit tags a magnitude.
type Unit string

// Distance units.
const (
	Foot       Unit = "f"
	Inch       Unit = "in"
	Mile       Unit = "mi"
	Meter      Unit = "m"
	Centimeter Unit = "cm"
	Kilometer  Unit = "km"
)

// Speed units.
const (
	FeetPerSecond     Unit = "f/s"
	MilesPerHour      Unit = "mi/h"
	MetersPerSecond   Unit = "m/s"
	KilometersPerHour Unit = "km/h"
)

// Acceleration units.
const (
	FeetPerSecondSquared   Unit = "f/s^2"
	MetersPerSecondSquared Unit = "m/s^2"
)

// Quantity names a family of mutually convertible units.
type Quantity string

const (
	Distance     Quantity = "distance"
	Speed        Quantity = "speed"
	Acceleration Quantity = "acceleration"
)

type conversion struct {
	from, to Unit
	ratio    *big.Rat // magnitude in `from` times ratio is the magnitude in `to`
}

type family struct {
	quantity Quantity
	units    []Unit
	convs    []conversion
	bigger   map[Unit]Unit
	smaller  map[Unit]Unit
	graph    *graph.Graph
}

func rat(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("units: bad ratio " + s)
	}
	return r
}

// 1 ft is exactly 0.3048 m.
var families = []*family{
	{
		quantity: Distance,
		units:    []Unit{Foot, Mile, Meter, Inch, Centimeter, Kilometer},
		convs: []conversion{
			{Foot, Mile, rat("1/5280")},
			{Foot, Meter, rat("0.3048")},
			{Foot, Inch, rat("12")},
			{Meter, Centimeter, rat("100")},
			{Meter, Kilometer, rat("1/1000")},
		},
		bigger:  map[Unit]Unit{Foot: Mile, Meter: Kilometer},
		smaller: map[Unit]Unit{Mile: Foot, Kilometer: Meter},
	},
	{
		quantity: Speed,
		units:    []Unit{FeetPerSecond, MilesPerHour, MetersPerSecond, KilometersPerHour},
		convs: []conversion{
			{FeetPerSecond, MilesPerHour, rat("3600/5280")},
			{FeetPerSecond, MetersPerSecond, rat("0.3048")},
			{MetersPerSecond, KilometersPerHour, rat("3600/1000")},
		},
		bigger:  map[Unit]Unit{FeetPerSecond: MilesPerHour, MetersPerSecond: KilometersPerHour},
		smaller: map[Unit]Unit{MilesPerHour: FeetPerSecond, KilometersPerHour: MetersPerSecond},
	},
	{
		quantity: Acceleration,
		units:    []Unit{FeetPerSecondSquared, MetersPerSecondSquared},
		convs: []conversion{
			{FeetPerSecondSquared, MetersPerSecondSquared, rat("0.3048")},
		},
		bigger:  map[Unit]Unit{},
		smaller: map[Unit]Unit{},
	},
}

var familyOf = map[Unit]*family{}

func init() {
	for _, f := range families {
		nodes := make([]graph.Node, 0, len(f.units))
		for _, u := range f.units {
			nodes = append(nodes, graph.Node{ID: string(u)})
			familyOf[u] = f
		}
		g, err := graph.NewGraph(graph.GraphData{Nodes: nodes})
		if err != nil {
			panic(err)
		}
		for _, c := range f.convs {
			if err := g.AddBidirectional(string(c.from), string(c.to), c.ratio); err != nil {
				panic(err)
			}
		}
		f.graph = g
	}
}

// Known reports whether u is a recognised unit.
func (u Unit) Known() bool {
	_, ok := familyOf[u]
	return ok
}

// Quantity returns the family u belongs to, or "" for an unknown unit.
func (u Unit) Quantity() Quantity {
	if f, ok := familyOf[u]; ok {
		return f.quantity
	}
	return ""
}

// Bigger returns u's coarser neighbour, if it has one.
func (u Unit) Bigger() (Unit, bool) {
	f, ok := familyOf[u]
	if !ok {
		return "", false
	}
	b, ok := f.bigger[u]
	return b, ok
}

// Smaller returns u's finer neighbour, if it has one.
func (u Unit) Smaller() (Unit, bool) {
	f, ok := familyOf[u]
	if !ok {
		return "", false
	}
	s, ok := f.smaller[u]
	return s, ok
}
