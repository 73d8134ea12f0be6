package units_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

func TestNewRejectsUnknownUnit(t *testing.T) {
	_, err := units.New(1, "furlong")
	assert.Equal(t, trackerr.KindValue, trackerr.KindOf(err))
}

func TestCompareSameUnit(t *testing.T) {
	a := units.MustNew(10, units.Foot)
	b := units.MustNew(12, units.Foot)

	c, err := a.Cmp(b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)
	c, err = b.Cmp(a)
	require.NoError(t, err)
	assert.Equal(t, 1, c)
	c, err = a.Cmp(a)
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	assert.Equal(t, 0, a.CmpValue(10))
	assert.Equal(t, 1, a.CmpValue(9.5))
}

func TestUnitMismatchIsTypeError(t *testing.T) {
	f := units.MustNew(1, units.Foot)
	m := units.MustNew(1, units.Meter)

	_, err := f.Cmp(m)
	assert.True(t, errors.Is(err, trackerr.ErrType))
	_, err = f.Add(m)
	assert.True(t, errors.Is(err, trackerr.ErrType))
	_, err = f.Sub(m)
	assert.True(t, errors.Is(err, trackerr.ErrType))
	_, err = f.Mod(m)
	assert.True(t, errors.Is(err, trackerr.ErrType))
}

func TestArithmeticKeepsLeftUnit(t *testing.T) {
	a := units.MustNew(5280, units.Foot)
	b := units.MustNew(528, units.Foot)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, units.MustNew(5808, units.Foot), sum)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, 4752.0, diff.Value())

	mod, err := a.Mod(units.MustNew(1000, units.Foot))
	require.NoError(t, err)
	assert.Equal(t, 280.0, mod.Value())

	_, err = a.Mod(units.MustNew(0, units.Foot))
	assert.True(t, errors.Is(err, trackerr.ErrValue))
	_, err = a.ModValue(0)
	assert.Equal(t, trackerr.KindValue, trackerr.KindOf(err))
	mod, err = a.ModValue(-1000)
	require.NoError(t, err)
	assert.Equal(t, 280.0, mod.Value())

	assert.Equal(t, 5281.0, a.AddValue(1).Value())
	assert.Equal(t, units.Foot, a.SubValue(1).Unit())
	assert.Equal(t, -5280.0, a.Neg().Value())
	assert.Equal(t, 5280.0, a.Neg().Abs().Value())
	assert.Equal(t, -1, a.Neg().Sign())
}

func TestBiggerSmaller(t *testing.T) {
	mi, err := units.MustNew(12, units.Mile).ToSmaller()
	require.NoError(t, err)
	assert.Equal(t, units.MustNew(63360, units.Foot), mi)

	back, err := mi.ToBigger()
	require.NoError(t, err)
	assert.Equal(t, units.MustNew(12, units.Mile), back)

	fps, err := units.MustNew(30, units.MilesPerHour).ToSmaller()
	require.NoError(t, err)
	assert.Equal(t, 44.0, fps.Value())

	_, err = units.MustNew(1, units.Mile).ToBigger()
	assert.Equal(t, trackerr.KindConversion, trackerr.KindOf(err))
	_, err = units.MustNew(1, units.FeetPerSecondSquared).ToSmaller()
	assert.Equal(t, trackerr.KindConversion, trackerr.KindOf(err))
}

func TestConvertMultiHop(t *testing.T) {
	// in -> f -> m -> cm
	cm, err := units.MustNew(12, units.Inch).ConvertTo(units.Centimeter)
	require.NoError(t, err)
	assert.InDelta(t, 30.48, cm.Value(), 1e-12)

	// mi -> f -> m -> km
	km, err := units.MustNew(1, units.Mile).ConvertTo(units.Kilometer)
	require.NoError(t, err)
	assert.InDelta(t, 1.609344, km.Value(), 1e-15)

	kph, err := units.MustNew(100, units.KilometersPerHour).ConvertTo(units.MilesPerHour)
	require.NoError(t, err)
	assert.InDelta(t, 62.137119, kph.Value(), 1e-6)

	same, err := km.ConvertTo(units.Kilometer)
	require.NoError(t, err)
	assert.Equal(t, km, same)
}

func TestConvertConcurrently(t *testing.T) {
	pairs := []struct {
		from, to units.Unit
		want     float64
	}{
		{units.Mile, units.Kilometer, 1.609344},
		{units.Inch, units.Centimeter, 2.54},
		{units.Kilometer, units.Foot, 3280.839895013123},
		{units.KilometersPerHour, units.MetersPerSecond, 1 / 3.6},
		{units.MilesPerHour, units.FeetPerSecond, 22.0 / 15},
	}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				p := pairs[(w+i)%len(pairs)]
				got, err := units.MustNew(1, p.from).ConvertTo(p.to)
				if !assert.NoError(t, err) {
					return
				}
				assert.InDelta(t, p.want, got.Value(), 1e-9)
			}
		}()
	}
	wg.Wait()
}

func TestConvertAcrossFamiliesFails(t *testing.T) {
	_, err := units.MustNew(1, units.Mile).ConvertTo(units.MilesPerHour)
	assert.True(t, errors.Is(err, trackerr.ErrConversion))
}

func TestUnitFamilies(t *testing.T) {
	assert.Equal(t, units.Distance, units.Centimeter.Quantity())
	assert.Equal(t, units.Speed, units.KilometersPerHour.Quantity())
	assert.Equal(t, units.Acceleration, units.MetersPerSecondSquared.Quantity())
	assert.Equal(t, units.Quantity(""), units.Unit("x").Quantity())
}

func TestFormat(t *testing.T) {
	s := units.MustNew(1.25, units.FeetPerSecondSquared)
	assert.Equal(t, "1.25 f/s^2", s.String())
	assert.Equal(t, "1.3 f/s^2", units.MustNew(1.26, units.FeetPerSecondSquared).Format(1))
}
