package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rv32sim/rv32sim/internal/core"
	"github.com/rv32sim/rv32sim/internal/disasm"
	"github.com/rv32sim/rv32sim/internal/loader"
)

func newRunCmd(logger *zerolog.Logger) *cobra.Command {
	var (
		filename string
		entry    uint32
		maxSteps int
		trace    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load an image and run it to completion or to a step budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filename == "" {
				return errors.New("run: -f/--file is required")
			}

			c := core.New()
			if err := loader.LoadFile(filename, c.Mem()); err != nil {
				return fmt.Errorf("run: loading image: %w", err)
			}
			c.Reset(entry)

			steps := 0
			var runErr error
			for maxSteps <= 0 || steps < maxSteps {
				r := c.StepTraced()
				if trace {
					if r.Err != nil {
						logger.Info().
							Str("pc", fmt.Sprintf("0x%08x", r.PC)).
							Str("inst", fmt.Sprintf("0x%08x", r.Inst)).
							Str("asm", disasm.Disassemble(r.Inst)).
							Msg("step (halting)")
					} else {
						logger.Info().
							Str("pc", fmt.Sprintf("0x%08x", r.PC)).
							Str("inst", fmt.Sprintf("0x%08x", r.Inst)).
							Str("asm", disasm.Disassemble(r.Inst)).
							Msg("step")
					}
				}
				steps++
				if r.Err != nil {
					runErr = r.Err
					break
				}
			}

			switch {
			case errors.Is(runErr, core.ErrHalt):
				logger.Info().Int("steps", steps).Str("pc", fmt.Sprintf("0x%08x", c.PC())).Msg("program halted")
			case runErr != nil:
				logger.Error().Int("steps", steps).Str("pc", fmt.Sprintf("0x%08x", c.PC())).Msg("illegal instruction")
				return runErr
			default:
				logger.Info().Int("steps", steps).Msg("step budget exhausted")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filename, "file", "f", "", "image file to run")
	cmd.Flags().Uint32Var(&entry, "entry", 0, "entry point address")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "maximum steps to run (0 = unbounded)")
	cmd.Flags().BoolVar(&trace, "trace", false, "emit one structured log line per step")
	return cmd
}
