package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v3"

	"github.com/librescoot/simplefsm"
	"github.com/librescoot/simplefsm/internal/logging"
	"github.com/librescoot/simplefsm/metrics"
	"github.com/librescoot/simplefsm/table"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Start a machine, dispatch events in order and print the callback trace",
		ArgsUsage: "FILE [EVENT...]",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "max-transitions",
				Usage: "override the table's transition ceiling",
			},
			&cli.BoolFlag{
				Name:  "keep-running",
				Usage: "do not force-stop the machine after the last event",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print Prometheus metrics for the run",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("table file path required")
			}

			logger, err := logging.New(cmd.String("log-format"), cmd.String("log-level"), cmd.Root().ErrWriter)
			if err != nil {
				return err
			}

			tbl, err := table.Load(cmd.Args().Get(0))
			if err != nil {
				return fmt.Errorf("failed to load table: %w", err)
			}
			if cmd.IsSet("max-transitions") {
				tbl.MaxTransitions = uint(cmd.Uint("max-transitions"))
			}

			r := &replay{
				table:       tbl,
				logger:      logger,
				keepRunning: cmd.Bool("keep-running"),
				registry:    prometheus.NewRegistry(),
			}
			runErr := r.run(cmd.Args().Slice()[1:])

			w := cmd.Root().Writer
			r.report(w)
			if cmd.Bool("metrics") {
				if err := r.writeMetrics(w); err != nil {
					return err
				}
			}
			return runErr
		},
	}
}

// replay drives one table machine through a list of events
type replay struct {
	table       *table.Table
	logger      *slog.Logger
	keepRunning bool
	registry    *prometheus.Registry

	trace   table.Trace
	machine *simplefsm.Machine[*table.Trace, string]
	stopErr error
}

func (r *replay) run(events []string) error {
	cfg, err := r.table.Compile(&r.trace)
	if err != nil {
		return err
	}

	obs, err := metrics.New(r.registry, "fsmrun", metrics.WithStateNames(r.table.Name))
	if err != nil {
		return err
	}

	r.machine, err = simplefsm.New(cfg,
		simplefsm.WithLogger(r.logger),
		simplefsm.WithObserver(obs),
		simplefsm.WithStateChangeCallback(func(from, to simplefsm.StateID) {
			r.logger.Info("state changed", "from", r.table.Name(from), "to", r.table.Name(to))
		}),
	)
	if err != nil {
		return err
	}

	if err := r.machine.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	for _, ev := range events {
		r.logger.Debug("dispatching", "event", ev)
		if err := r.machine.OnEvent(ev); err != nil {
			return fmt.Errorf("event %q: %w", ev, err)
		}
	}

	if !r.keepRunning {
		r.stopErr = r.machine.ForceStop()
		if errors.Is(r.stopErr, simplefsm.ErrIncomplete) {
			r.logger.Warn("exit handler requested a transition during stop", "error", r.stopErr)
		}
	}
	return nil
}

func (r *replay) report(w io.Writer) {
	for _, call := range r.trace.Calls {
		fmt.Fprintln(w, call)
	}
	if r.machine == nil {
		return
	}

	state, err := r.machine.CurrentState()
	status := "running"
	if err != nil {
		status = "stopped"
	}
	fmt.Fprintf(w, "final state: %s (%s)\n", r.table.Name(state), status)
	if r.stopErr != nil {
		fmt.Fprintf(w, "stop: %v\n", r.stopErr)
	}
}

func (r *replay) writeMetrics(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
