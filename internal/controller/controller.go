// Package controller drives an EditableTrack from one-line text commands.
// Arguments are typed in big units (miles or kilometres, mi/h or km/h) and
// converted to the track's small units before they reach the track.
package controller

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/cxd309/trainspeedsim/internal/config"
	"github.com/cxd309/trainspeedsim/internal/engine"
	"github.com/cxd309/trainspeedsim/internal/report"
	"github.com/cxd309/trainspeedsim/internal/track"
	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

var log = logrus.WithField("module", "controller")

// Messages printed after a mutating command.
const (
	MsgChanged   = "Change success"
	MsgUnchanged = "No change"
)

type argKind int

const (
	position argKind = iota // milepost or distance in the big distance unit
	speed                   // speed or speed change in the big speed unit
)

type command struct {
	usage string
	args  []argKind
	run   func(c *Controller, args []units.Scalar) (track.Result, error)
}

var commands = map[string]command{
	"append": {"append SPEED LENGTH   add a segment at the end of the track", []argKind{speed, position},
		func(c *Controller, a []units.Scalar) (track.Result, error) { return c.track.AppendSeg(a[0], a[1]) }},
	"split": {"split MP               split the segment containing MP", []argKind{position},
		func(c *Controller, a []units.Scalar) (track.Result, error) { return c.track.SplitSeg(a[0]) }},
	"join": {"join MP                join the segments meeting at MP", []argKind{position},
		func(c *Controller, a []units.Scalar) (track.Result, error) { return c.track.JoinSegs(a[0]) }},
	"shift": {"shift MP DIST          move the boundary at MP by DIST", []argKind{position, position},
		func(c *Controller, a []units.Scalar) (track.Result, error) { return c.track.ShiftBoundary(a[0], a[1]) }},
	"speed": {"speed MP DELTA         change the speed limit at MP by DELTA", []argKind{position, speed},
		func(c *Controller, a []units.Scalar) (track.Result, error) { return c.track.ShiftSpeedLimit(a[0], a[1]) }},
}

var queries = map[string]string{
	"limits":  "limits                 list speed-limit changes",
	"show":    "show                   print the segments",
	"sim":     "sim                    simulate the track and print the speed profile",
	"summary": "summary                simulate the track and print profile statistics",
	"load":    "load FILE              replace the track with one read from FILE",
	"help":    "help                   list commands",
}

// Controller applies commands to one editing session.
type Controller struct {
	track *track.EditableTrack
	cfg   config.Config
	out   io.Writer
	log   *logrus.Entry
}

// New returns a controller editing t, writing results to out. The track
// and configuration must use the same unit system.
func New(t *track.EditableTrack, cfg config.Config, out io.Writer) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if t.System() != cfg.Units {
		return nil, trackerr.New(trackerr.KindValue, "controller", "track is %s but configuration is %s", t.System(), cfg.Units)
	}
	c := &Controller{track: t, cfg: cfg, out: out}
	c.setTrack(t)
	return c, nil
}

func (c *Controller) setTrack(t *track.EditableTrack) {
	c.track = t
	c.log = log.WithField("session", t.ID())
}

// Track is the track being edited.
func (c *Controller) Track() *track.EditableTrack { return c.track }

// Execute runs one command line. Blank lines and lines starting with '#'
// are ignored. Mutating commands print MsgChanged or MsgUnchanged; every
// failure is returned with its trackerr kind and leaves the track as it was.
func (c *Controller) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	name, rest := strings.ToLower(fields[0]), fields[1:]
	c.log.WithField("command", name).Debug(line)

	if cmd, ok := commands[name]; ok {
		args, err := c.parseArgs(name, cmd, rest)
		if err != nil {
			return err
		}
		res, err := cmd.run(c, args)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, lo.Ternary(res == track.Changed, MsgChanged, MsgUnchanged))
		return err
	}

	switch name {
	case "limits":
		return report.WriteLimits(c.out, c.track.Limits())
	case "show":
		_, err := fmt.Fprintln(c.out, c.track)
		return err
	case "sim", "summary":
		simLog, err := c.simulate()
		if err != nil {
			return err
		}
		if name == "summary" {
			return report.WriteSummary(c.out, report.Summarize(simLog), simLog)
		}
		return report.Write(c.out, c.cfg.Format, simLog)
	case "load":
		if len(rest) != 1 {
			return usageError(name, queries[name])
		}
		t, err := track.LoadEditable(rest[0], c.cfg.Units)
		if err != nil {
			return err
		}
		c.setTrack(t)
		_, err = fmt.Fprintln(c.out, MsgChanged)
		return err
	case "help":
		return c.help()
	}
	return trackerr.New(trackerr.KindValue, "controller", "unknown command %q (try help)", name)
}

func (c *Controller) parseArgs(name string, cmd command, raw []string) ([]units.Scalar, error) {
	if len(raw) != len(cmd.args) {
		return nil, usageError(name, cmd.usage)
	}
	sys := c.track.System()
	args := make([]units.Scalar, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, trackerr.Wrap(trackerr.KindValue, name, err, "argument %d: %q is not a number", i+1, s)
		}
		if cmd.args[i] == speed {
			args[i], err = sys.SpeedLimit(v)
		} else {
			args[i], err = sys.Milepost(v)
		}
		if err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (c *Controller) simulate() (engine.SimulationLog, error) {
	sim, err := engine.NewSimulation(c.track.Track, c.cfg.Model(), c.cfg.Resolution)
	if err != nil {
		return engine.SimulationLog{}, err
	}
	profile, err := sim.Run()
	if err != nil {
		return engine.SimulationLog{}, err
	}
	return sim.Log(profile)
}

func (c *Controller) help() error {
	lines := lo.MapToSlice(commands, func(_ string, cmd command) string { return cmd.usage })
	lines = append(lines, lo.Values(queries)...)
	sort.Strings(lines)
	_, err := fmt.Fprintf(c.out, "commands (positions in %s, speeds in %s):\n  %s\n",
		c.cfg.Units.BigDistance(), c.cfg.Units.BigSpeed(), strings.Join(lines, "\n  "))
	return err
}

func usageError(name, usage string) error {
	return trackerr.New(trackerr.KindValue, name, "usage: %s", strings.Fields(usage)[0]+usageArgs(usage))
}

// usageArgs returns the upper-case argument names from a usage line.
func usageArgs(usage string) string {
	var b strings.Builder
	for _, f := range strings.Fields(usage)[1:] {
		if f != strings.ToUpper(f) {
			break
		}
		b.WriteString(" " + f)
	}
	return b.String()
}
