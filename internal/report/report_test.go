package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cxd309/trainspeedsim/internal/engine"
	"github.com/cxd309/trainspeedsim/internal/track"
	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

func sampleLog() engine.SimulationLog {
	return engine.SimulationLog{
		Meta:         engine.SimulationMeta{SimulationID: "s1", Units: units.Imperial, Resolution: 528},
		DistanceUnit: units.Mile,
		SpeedUnit:    units.MilesPerHour,
		Output: []engine.ProfilePoint{
			{Milepost: 10, Speed: 0},
			{Milepost: 10.5, Speed: 40},
			{Milepost: 11, Speed: 40},
			{Milepost: 11.5, Speed: 0},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Write(&b, Table, sampleLog()))
	assert.Equal(t, "10.0, 0\n10.5, 40\n11.0, 40\n11.5, 0\n", b.String())
}

func TestWriteEncodings(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Write(&b, JSON, sampleLog()))
	var fromJSON engine.SimulationLog
	require.NoError(t, json.Unmarshal(b.Bytes(), &fromJSON))
	assert.Equal(t, sampleLog(), fromJSON)

	b.Reset()
	require.NoError(t, Write(&b, MsgPack, sampleLog()))
	var fromMsgPack engine.SimulationLog
	require.NoError(t, msgpack.Unmarshal(b.Bytes(), &fromMsgPack))
	assert.Equal(t, sampleLog(), fromMsgPack)

	err := Write(&b, Format("xml"), sampleLog())
	assert.Equal(t, trackerr.KindValue, trackerr.KindOf(err))
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "msgpack"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("csv")
	assert.Equal(t, trackerr.KindValue, trackerr.KindOf(err))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleLog())
	assert.Equal(t, 4, s.Points)
	assert.Equal(t, 10.0, s.Start)
	assert.Equal(t, 11.5, s.End)
	assert.Equal(t, 40.0, s.MaxSpeed)
	// (10 + 20 + 10) mi·mi/h over 1.5 mi.
	assert.InDelta(t, 40.0/1.5, s.MeanSpeed, 1e-9)

	assert.Equal(t, Summary{}, Summarize(engine.SimulationLog{}))

	var b bytes.Buffer
	require.NoError(t, WriteSummary(&b, s, sampleLog()))
	assert.Equal(t, "4 points, 10.0 - 11.5 mi, max 40.0 mi/h, mean 26.7 mi/h\n", b.String())
}

func TestWriteLimits(t *testing.T) {
	tr, err := track.FromControlPoints([]track.ControlPoint{
		{Milepost: 0, Speed: 20}, {Milepost: 0.5, Speed: 30}, {Milepost: 1, Speed: 30},
	}, units.Imperial)
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, WriteLimits(&b, tr.Limits()))
	assert.Equal(t, "0.000 mi, 20.0 mi/h\n0.500 mi, 30.0 mi/h\n1.000 mi, end\n", b.String())
}
