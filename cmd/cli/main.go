// Command trainspeedsim reads a tab-separated speed-limit file, simulates a
// train accelerating and braking over it, and writes the fastest achievable
// speed profile to stdout.
//
// With -json it instead reads a SimulationInput JSON from a file argument
// (or stdin) and writes the SimulationLog JSON, the same contract as the
// WASM target.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cxd309/trainspeedsim/internal/config"
	"github.com/cxd309/trainspeedsim/internal/engine"
	"github.com/cxd309/trainspeedsim/internal/report"
	"github.com/cxd309/trainspeedsim/internal/track"
)

const help = `trainspeedsim [-h|--help | OPTIONS] INPUT_FILE
OPTIONS:
  -u|--units: imperial|metric
  -a|--acceleration: decimal value (default: 1.25 f/s^2 or that converted to
    m/s^2)
  -r|--resolution: integral value (default: 528 f or 100 m)
  --format: table|json|msgpack (default: table)
  --config: YAML configuration file
  --log.level: trace|debug|info|warn|error|critical|off (default: info)
  --json: read a JSON simulation input (file or stdin) and write JSON
`

var (
	unitsFlag  string
	accelFlag  float64
	resFlag    float64
	formatFlag = flag.String("format", "table", "output format")
	configPath = flag.String("config", "", "config file path")
	logLevel   = flag.String("log.level", "info", "log level")
	jsonMode   = flag.Bool("json", false, "JSON input and output")

	log = logrus.WithField("module", "cli")
)

func init() {
	flag.StringVar(&unitsFlag, "u", "imperial", "unit system")
	flag.StringVar(&unitsFlag, "units", "imperial", "unit system")
	flag.Float64Var(&accelFlag, "a", 0, "acceleration")
	flag.Float64Var(&accelFlag, "acceleration", 0, "acceleration")
	flag.Float64Var(&resFlag, "r", 0, "resolution")
	flag.Float64Var(&resFlag, "resolution", 0, "resolution")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), help) }
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})

	if *jsonMode {
		if err := runJSON(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Resolve(*configPath, overrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logrus.SetLevel(cfg.Level())
	log.Debugf("%+v", cfg)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: must specify exactly one input file")
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// overrides collects the flags given on the command line.
func overrides() config.Overrides {
	var o config.Overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "u", "units":
			o.Units = &unitsFlag
		case "a", "acceleration":
			o.Acceleration = &accelFlag
		case "r", "resolution":
			o.Resolution = &resFlag
		case "format":
			o.Format = formatFlag
		case "log.level":
			o.LogLevel = logLevel
		}
	})
	return o
}

func run(path string, cfg config.Config) error {
	t, err := track.Load(path, cfg.Units)
	if err != nil {
		return err
	}
	sim, err := engine.NewSimulation(t, cfg.Model(), cfg.Resolution)
	if err != nil {
		return err
	}
	profile, err := sim.Run()
	if err != nil {
		return err
	}
	simLog, err := sim.Log(profile)
	if err != nil {
		return err
	}
	return report.Write(os.Stdout, cfg.Format, simLog)
}

func runJSON() error {
	var (
		data []byte
		err  error
	)
	if flag.NArg() > 0 {
		data, err = os.ReadFile(flag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	result, err := engine.RunJSON(string(data))
	if err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}
	fmt.Println(result)
	return nil
}
