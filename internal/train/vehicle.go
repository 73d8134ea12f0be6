package train

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/trainspeedsim/internal/kinematics"
)

// Vehicle names a train and the physics it runs with. Kinem is resolved
// from the "model" key of the "kinematics" object by UnmarshalJSON.
type Vehicle struct {
	Name  string                 `json:"name"`
	Kinem kinematics.MotionModel `json:"-"` // set by UnmarshalJSON
}

// kinematicsDisc reads only the model discriminator.
type kinematicsDisc struct {
	Model string `json:"model"`
}

// vehicleJSON is a Vehicle with its kinematics still undecoded.
type vehicleJSON struct {
	Name  string          `json:"name"`
	Kinem json.RawMessage `json:"kinematics"`
}

// UnmarshalJSON implements json.Unmarshaler for Vehicle.
// The "kinematics" field must contain a "model" discriminator key that selects
// the concrete implementation; the rest of the kinematics object is forwarded to
// that implementation's own unmarshaler.
//
// Supported models:
//   - "constant": fixed a_acc / a_dcc rates.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	var aux vehicleJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.Name = aux.Name

	if len(aux.Kinem) == 0 {
		return fmt.Errorf("vehicle %q: missing \"kinematics\" field", v.Name)
	}

	var disc kinematicsDisc
	if err := json.Unmarshal(aux.Kinem, &disc); err != nil {
		return fmt.Errorf("vehicle %q: reading kinematics model discriminator: %w", v.Name, err)
	}

	switch disc.Model {
	case kinematics.ConstantModelName:
		var k kinematics.ConstantAcceleration
		if err := json.Unmarshal(aux.Kinem, &k); err != nil {
			return fmt.Errorf("vehicle %q: parsing constant kinematics: %w", v.Name, err)
		}
		v.Kinem = k
	default:
		return fmt.Errorf("vehicle %q: unknown kinematics model %q", v.Name, disc.Model)
	}
	return nil
}

// MarshalJSON writes the vehicle back out with its model discriminator.
func (v Vehicle) MarshalJSON() ([]byte, error) {
	if v.Kinem == nil {
		return nil, fmt.Errorf("vehicle %q: no kinematics model", v.Name)
	}
	k, err := json.Marshal(v.Kinem)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(k, &fields); err != nil {
		return nil, err
	}
	fields["model"] = v.Kinem.Name()
	return json.Marshal(struct {
		Name  string         `json:"name"`
		Kinem map[string]any `json:"kinematics"`
	}{v.Name, fields})
}
