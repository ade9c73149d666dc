package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rv32sim/rv32sim/internal/disasm"
	"github.com/rv32sim/rv32sim/internal/loader"
)

func newDisasmCmd(logger *zerolog.Logger) *cobra.Command {
	var filename string

	cmd := &cobra.Command{
		Use:   "disasm",
		Short: "Print the disassembly of every word in an image without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filename == "" {
				return errors.New("disasm: -f/--file is required")
			}
			fp, err := os.Open(filename)
			if err != nil {
				return err
			}
			defer fp.Close()

			words, err := loader.Words(fp)
			if err != nil {
				return fmt.Errorf("disasm: %w", err)
			}
			logger.Debug().Int("words", len(words)).Msg("parsed image")
			for _, w := range words {
				fmt.Printf("[%08x]%08x: %s\n", w.Addr, w.Value, disasm.Disassemble(w.Value))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filename, "file", "f", "", "image file to disassemble")
	return cmd
}
