// Package config holds the simulator settings: the unit system, train
// rates, step resolution, output format and log level. Settings come from
// defaults per unit system, an optional YAML file and command-line flags,
// in increasing order of precedence.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/cxd309/trainspeedsim/internal/kinematics"
	"github.com/cxd309/trainspeedsim/internal/report"
	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// Config is the simulator configuration. Rates are in the unit system's
// acceleration unit, the resolution in its small distance unit.
type Config struct {
	Units        units.System  `yaml:"units"`
	Acceleration float64       `yaml:"acceleration"`
	Deceleration float64       `yaml:"deceleration,omitempty"` // 0 brakes at the acceleration rate
	Resolution   float64       `yaml:"resolution"`
	Format       report.Format `yaml:"format"`
	LogLevel     string        `yaml:"log_level"`
}

// LogLevels maps the accepted log_level names to logrus levels.
var LogLevels = map[string]logrus.Level{
	"trace":    logrus.TraceLevel,
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
	"off":      logrus.PanicLevel,
}

// DefaultAcceleration is the stock traction rate before unit conversion.
var DefaultAcceleration = units.MustNew(1.25, units.FeetPerSecondSquared)

var defaultResolution = map[units.System]units.Scalar{
	units.Imperial: units.MustNew(528, units.Foot),
	units.Metric:   units.MustNew(100, units.Meter),
}

// Default returns the stock configuration for system: 1.25 f/s² (converted
// for metric), a step of 528 f or 100 m, table output, info logging.
func Default(system units.System) (Config, error) {
	system, err := units.ParseSystem(string(system))
	if err != nil {
		return Config{}, err
	}
	a, err := DefaultAcceleration.ConvertTo(system.Acceleration())
	if err != nil {
		return Config{}, err
	}
	return Config{
		Units:        system,
		Acceleration: a.Value(),
		Resolution:   defaultResolution[system].Value(),
		Format:       report.Table,
		LogLevel:     "info",
	}, nil
}

// Load reads a YAML configuration file. See Parse.
func Load(path string) (Config, error) {
	return load(path, "")
}

func load(path string, system units.System) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config file load err: %w", err)
	}
	c, err := parse(data, system)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML strictly (unknown keys are errors) and fills every
// unset field from the defaults of the configured unit system, imperial if
// none is given.
func Parse(data []byte) (Config, error) {
	return parse(data, "")
}

// parse is Parse with the unit system fixed by the caller when system is
// set; a file naming another system is then an error.
func parse(data []byte, system units.System) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, trackerr.Wrap(trackerr.KindValue, "config.Parse", err, "invalid YAML")
	}
	switch {
	case system != "" && c.Units != "" && c.Units != system:
		return Config{}, trackerr.New(trackerr.KindValue, "config.Parse", "file sets units %q but %q was requested", c.Units, system)
	case c.Units == "":
		c.Units = lo.Ternary(system == "", units.Imperial, system)
	}
	d, err := Default(c.Units)
	if err != nil {
		return Config{}, err
	}
	c.Acceleration = lo.Ternary(c.Acceleration == 0, d.Acceleration, c.Acceleration)
	c.Resolution = lo.Ternary(c.Resolution == 0, d.Resolution, c.Resolution)
	c.Format = lo.Ternary(c.Format == "", d.Format, c.Format)
	c.LogLevel = lo.Ternary(c.LogLevel == "", d.LogLevel, c.LogLevel)
	return c, c.Validate()
}

// Overrides are settings given on the command line. Nil fields are unset.
type Overrides struct {
	Units        *string
	Acceleration *float64
	Resolution   *float64
	Format       *string
	LogLevel     *string
}

// Resolve builds the effective configuration: defaults for the unit
// system, then the YAML file at path if path is not empty, then o.
func Resolve(path string, o Overrides) (Config, error) {
	var system units.System
	if o.Units != nil {
		s, err := units.ParseSystem(*o.Units)
		if err != nil {
			return Config{}, err
		}
		system = s
	}

	var (
		c   Config
		err error
	)
	if path != "" {
		c, err = load(path, system)
	} else {
		c, err = Default(lo.Ternary(system == "", units.Imperial, system))
	}
	if err != nil {
		return Config{}, err
	}

	if o.Acceleration != nil {
		c.Acceleration = *o.Acceleration
	}
	if o.Resolution != nil {
		c.Resolution = *o.Resolution
	}
	if o.Format != nil {
		c.Format = report.Format(*o.Format)
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	return c, c.Validate()
}

// Validate reports the first unusable setting as a ValueKind error.
func (c Config) Validate() error {
	const op = "config"
	if _, err := units.ParseSystem(string(c.Units)); err != nil {
		return err
	}
	if err := c.Model().Validate(); err != nil {
		return err
	}
	if !(c.Resolution > 0) || math.IsInf(c.Resolution, 0) || c.Resolution != math.Trunc(c.Resolution) {
		return trackerr.New(trackerr.KindValue, op, "resolution must be a positive integer number of %s, got %v", c.Units.Distance(), c.Resolution)
	}
	if _, err := report.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if _, ok := LogLevels[c.LogLevel]; !ok {
		return trackerr.New(trackerr.KindValue, op, "log_level must be one of %v, got %q", lo.Keys(LogLevels), c.LogLevel)
	}
	return nil
}

// Model is the constant-acceleration model described by c.
func (c Config) Model() kinematics.ConstantAcceleration {
	return kinematics.ConstantAcceleration{AAcc: c.Acceleration, ADcc: c.Deceleration}
}

// Level is the logrus level named by c.LogLevel, info if unknown.
func (c Config) Level() logrus.Level {
	if l, ok := LogLevels[c.LogLevel]; ok {
		return l
	}
	return logrus.InfoLevel
}
