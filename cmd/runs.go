/*
Copyright © 2026 Artefactory

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artefactory-fr/nertrain/internal/config"
	"github.com/artefactory-fr/nertrain/internal/store"
)

var runsDBPath string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded evaluation and training runs",
	Long:  `List and summarise the evaluation and training runs recorded in the local SQLite database.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List evaluation runs with their per-model accuracies",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(runsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		ctx := context.Background()
		runs, err := db.ListEvaluationRuns(ctx)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No evaluation runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tPROFILE\tTASKS\tMODEL\tHITS\tACCURACY\tCREATED")
		for _, r := range runs {
			accs, err := db.ListModelAccuracies(ctx, r.ID)
			if err != nil {
				return err
			}
			if len(accs) == 0 {
				fmt.Fprintf(w, "%s\t%s\t%d\t-\t-\t-\t%s\n",
					shortID(r.ID), r.Profile, r.TaskCount, r.CreatedAt.Format("2006-01-02 15:04"))
				continue
			}
			for _, a := range accs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%.2f\t%s\n",
					shortID(r.ID), r.Profile, r.TaskCount, a.Model, a.Hits, a.Accuracy,
					r.CreatedAt.Format("2006-01-02 15:04"))
			}
		}
		return w.Flush()
	},
}

var runsTrainingCmd = &cobra.Command{
	Use:   "training",
	Short: "List training runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(runsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		runs, err := db.ListTrainingRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list training runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No training runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tMODEL\tBASE\tITER\tEXAMPLES\tSTATUS\tARTIFACT\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
				shortID(r.ID), r.Model, r.BaseModel, r.Iterations, r.ExampleCount,
				r.Status, r.ArtifactObject, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(runsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Evaluation runs: %d\n", stats.EvaluationRuns)
		fmt.Printf("Training runs:   %d\n", stats.TrainingRuns)
		fmt.Printf("Completed:       %d\n", stats.CompletedRuns)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.PersistentFlags().StringVar(&runsDBPath, "db", config.DefaultDBPath, "Database path")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsTrainingCmd)
	runsCmd.AddCommand(runsStatsCmd)
}
