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

func newStepCmd(logger *zerolog.Logger) *cobra.Command {
	var (
		filename string
		entry    uint32
		count    int
	)

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Single-step an image, printing disassembly and state after each step",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filename == "" {
				return errors.New("step: -f/--file is required")
			}

			c := core.New()
			if err := loader.LoadFile(filename, c.Mem()); err != nil {
				return fmt.Errorf("step: loading image: %w", err)
			}
			c.Reset(entry)

			for i := 0; i < count; i++ {
				r := c.StepTraced()
				fmt.Printf("[%08x]%08x: %s\n", r.PC, r.Inst, disasm.Disassemble(r.Inst))
				fmt.Printf("  PC=0x%08x\n", c.PC())
				if r.Err != nil {
					if errors.Is(r.Err, core.ErrHalt) {
						logger.Info().Msg("program halted")
						return nil
					}
					return r.Err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filename, "file", "f", "", "image file to run")
	cmd.Flags().Uint32Var(&entry, "entry", 0, "entry point address")
	cmd.Flags().IntVar(&count, "count", 1, "number of steps to execute")
	return cmd
}
