package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/librescoot/simplefsm"
	"github.com/librescoot/simplefsm/table"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a machine table file",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("table file path required")
			}
			path := cmd.Args().Get(0)

			tbl, err := table.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load table: %w", err)
			}
			cfg, err := tbl.Compile(&table.Trace{})
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			w := cmd.Root().Writer
			fmt.Fprintf(w, "Table %s is valid: %d states, max %d transitions\n", path, cfg.StateCount, cfg.MaxTransitionCount)
			for i, s := range tbl.States {
				marker := " "
				if simplefsm.StateID(i) == cfg.InitialState {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %d %s\n", marker, i, s.Name)
			}
			return nil
		},
	}
}
