package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var batchesCmd = &cobra.Command{
	Use:   "batches <scenario.yaml>",
	Short: "Print the batches the first phase would dispatch, without running them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadScenario(args[0])
		if err != nil {
			return err
		}

		m, err := doc.Build()
		if err != nil {
			return err
		}

		batches, err := m.BatchesForDebugging(context.Background())
		if err != nil {
			return err
		}

		for _, b := range batches {
			fmt.Printf("%s / %s: %d task(s)\n", b.Handler, b.BatchKey, len(b.Tasks))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchesCmd)
}
