package track

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
)

const grid = 528

// TestRandomEditsKeepInvariants drives a track through a fixed pseudo-random
// sequence of edits on a 528 ft grid. Every successful edit must leave a
// valid track and every failed one must leave it untouched.
func TestRandomEditsKeepInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 8; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*7919))
		e := feetTrack(t, [2]float64{10 * grid, 40}, [2]float64{4 * grid, 30})

		for step := 0; step < 400; step++ {
			before := e.Segments()
			name, res, err := randomEdit(r, e)
			if err != nil {
				require.True(t, trackerr.Recoverable(err), "seed %d step %d %s: %v", seed, step, name, err)
				require.Equal(t, Unchanged, res)
				require.Equal(t, before, e.Segments(), "seed %d step %d %s changed the track on error", seed, step, name)
				continue
			}
			require.NoError(t, e.Check(), "seed %d step %d %s:\n%v", seed, step, name, e)
			if res == Unchanged {
				assert.Equal(t, before, e.Segments(), "seed %d step %d %s", seed, step, name)
			}
		}
	}
}

func randomEdit(r *rand.Rand, e *EditableTrack) (string, Result, error) {
	segs := e.Segments()
	first, last := segs[0].Start().Value(), segs[len(segs)-1].End().Value()
	// Points range one grid step beyond each end to exercise bounds errors.
	n := int((last-first)/grid) + 3
	mp := ft(first + float64(r.IntN(n)-1)*grid)

	switch r.IntN(6) {
	case 0:
		res, err := e.AppendSeg(fps(float64(r.IntN(4)*10)), ft(float64(r.IntN(3)*grid)))
		return "append", res, err
	case 1:
		res, err := e.SplitSeg(mp)
		return "split", res, err
	case 2:
		res, err := e.JoinSegs(mp)
		return "join", res, err
	case 3, 4:
		res, err := e.ShiftBoundary(mp, ft(float64(r.IntN(7)-3)*grid))
		return "shift boundary", res, err
	default:
		res, err := e.ShiftSpeedLimit(mp, fps(float64(r.IntN(5)-2)*10))
		return "shift speed limit", res, err
	}
}
