package train

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/trainspeedsim/internal/kinematics"
)

func TestVehicleUnmarshal(t *testing.T) {
	var v Vehicle
	err := json.Unmarshal([]byte(`{"name":"class 66","kinematics":{"model":"constant","a_acc":1.25,"a_dcc":2}}`), &v)
	require.NoError(t, err)
	assert.Equal(t, "class 66", v.Name)
	assert.Equal(t, kinematics.ConstantAcceleration{AAcc: 1.25, ADcc: 2}, v.Kinem)
}

func TestVehicleUnmarshalErrors(t *testing.T) {
	for name, in := range map[string]string{
		"missing kinematics": `{"name":"x"}`,
		"unknown model":      `{"name":"x","kinematics":{"model":"jerk"}}`,
		"bad kinematics":     `{"name":"x","kinematics":[1]}`,
		"bad rates":          `{"name":"x","kinematics":{"model":"constant","a_acc":"fast"}}`,
	} {
		var v Vehicle
		assert.Error(t, json.Unmarshal([]byte(in), &v), name)
	}
}

func TestVehicleRoundTrip(t *testing.T) {
	in := Vehicle{Name: "dmu", Kinem: kinematics.Constant(0.5)}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"dmu","kinematics":{"model":"constant","a_acc":0.5,"a_dcc":0}}`, string(data))

	var out Vehicle
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	_, err = json.Marshal(Vehicle{Name: "bare"})
	assert.Error(t, err)
}
