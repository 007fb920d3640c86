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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/artefactory-fr/nertrain/internal/evaluator"
	"github.com/artefactory-fr/nertrain/internal/gcs"
	"github.com/artefactory-fr/nertrain/internal/store"
)

var (
	evalNoStore bool
	evalJSON    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compute per-model accuracy from the annotation export",
	Long: `Download the annotation export and score each model variant's
predictions against the accepted human annotations. A model's accuracy is
the fraction of tasks where its prediction exactly matches the accepted
annotation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}

		ctx := context.Background()

		client, err := gcs.New(ctx, p.Credentials)
		if err != nil {
			return err
		}
		defer client.Close()

		tasks, err := loadTasks(ctx, client, p)
		if err != nil {
			return err
		}
		logf("Loaded %d annotation tasks from gs://%s/%s\n",
			len(tasks), p.AnnotationBucket, p.AnnotationObject)

		tally, err := evaluator.Count(tasks)
		if err != nil {
			return err
		}
		accuracy := tally.Accuracy()

		if !evalNoStore {
			db, err := store.New(p.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			runID := uuid.New().String()
			run := store.EvaluationRun{
				ID:        runID,
				Profile:   p.Name,
				TaskCount: tally.TaskCount,
				CreatedAt: time.Now(),
			}
			if err := db.SaveEvaluationRun(ctx, run); err != nil {
				return err
			}
			for model, hits := range tally.Hits {
				if err := db.SaveModelAccuracy(ctx, runID, model, hits, accuracy[model]); err != nil {
					return err
				}
			}
		}

		if evalJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(accuracy)
		}
		return printAccuracy(os.Stdout, accuracy)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().BoolVar(&evalNoStore, "no-store", false, "Do not record the run in the local database")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "Print the accuracy mapping as JSON")
}
