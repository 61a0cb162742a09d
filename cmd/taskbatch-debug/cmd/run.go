package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/apparentlymart/go-taskbatch"
	"github.com/apparentlymart/go-taskbatch/internal/metrics"
	"github.com/apparentlymart/go-taskbatch/internal/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Execute a scenario file to completion and print its result tree",
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

		var collector *metrics.Collector
		opts := []taskbatch.Option{taskbatch.WithMaxPhases(cfg.Scheduler.MaxPhases)}
		if cfg.Metrics.Enabled {
			collector = metrics.NewCollector()
			opts = append(opts, taskbatch.WithMetrics(collector))
			srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: collector.Handler()}
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					fmt.Fprintln(os.Stderr, "metrics server:", err)
				}
			}()
		}

		sched := taskbatch.NewScheduler(opts...)
		result, err := sched.Execute(context.Background(), m)
		if err != nil {
			return err
		}

		printTree(result, 0)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func loadScenario(path string) (*scenario.Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return scenario.Parse(data)
}

func printTree(v any, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	tree, ok := v.(taskbatch.ResultTree)
	if !ok {
		fmt.Printf("%s%v\n", indent, v)
		return
	}
	for k, child := range tree {
		fmt.Printf("%s%v:\n", indent, k)
		printTree(child, depth+1)
	}
}
