// Command rv32sim is the command-line driver for the RV32I simulator.
// It is an external collaborator of the core engine: it owns image
// loading, tracing, and the process exit code, while internal/core
// owns no I/O at all.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "rv32sim",
		Short: "A reference instruction-set simulator for RV32I",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger = logger.Level(zerolog.DebugLevel)
			} else {
				logger = logger.Level(zerolog.InfoLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(&logger),
		newStepCmd(&logger),
		newDisasmCmd(&logger),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
