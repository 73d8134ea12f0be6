// Command trainspeedsim-edit is a line-oriented track editor. It loads an
// optional tab-separated speed-limit file and then reads commands from
// stdin, one per line; type "help" for the list.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cxd309/trainspeedsim/internal/config"
	"github.com/cxd309/trainspeedsim/internal/controller"
	"github.com/cxd309/trainspeedsim/internal/track"
	"github.com/cxd309/trainspeedsim/internal/trackerr"
)

var (
	unitsFlag  = flag.String("units", "imperial", "unit system: imperial|metric")
	configPath = flag.String("config", "", "config file path")
	logLevel   = flag.String("log.level", "warn", "log level (trace debug info warn error critical off)")
	quiet      = flag.Bool("q", false, "no prompt")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})

	var o config.Overrides
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "units" {
			o.Units = unitsFlag
		}
	})
	o.LogLevel = logLevel
	cfg, err := config.Resolve(*configPath, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logrus.SetLevel(cfg.Level())

	var t *track.EditableTrack
	if flag.NArg() > 0 {
		t, err = track.LoadEditable(flag.Arg(0), cfg.Units)
	} else {
		t, err = track.NewEditable(cfg.Units)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	c, err := controller.New(t, cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		if !*quiet {
			fmt.Print("> ")
		}
		if !in.Scan() {
			break
		}
		if line := in.Text(); line == "quit" || line == "exit" {
			break
		} else if err := c.Execute(line); err != nil {
			fmt.Printf("Error: %v (%v)\n", trackerr.KindOf(err), err)
		}
	}
	if err := in.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
