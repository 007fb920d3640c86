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
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/artefactory-fr/nertrain/internal/annotation"
	"github.com/artefactory-fr/nertrain/internal/evaluator"
	"github.com/artefactory-fr/nertrain/internal/gcs"
	"github.com/artefactory-fr/nertrain/internal/ner"
	"github.com/artefactory-fr/nertrain/internal/pipeline"
	"github.com/artefactory-fr/nertrain/internal/store"
	"github.com/artefactory-fr/nertrain/internal/trainer"
)

var (
	noStore     bool
	stepTimeout time.Duration
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run the full retraining workflow",
	Long: `Run the full workflow: download the annotation export, compute
per-model accuracy, record the evaluation run, and fine-tune the designated
model through the external model server when its accuracy is below the
profile's threshold. The trained artifact is uploaded to the profile's
model bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}

		baseModel, err := p.PretrainedModel()
		if err != nil {
			return err
		}

		ctx := context.Background()

		client, err := gcs.New(ctx, p.Credentials)
		if err != nil {
			return err
		}
		defer client.Close()

		var db *store.Store
		if !noStore {
			db, err = store.New(p.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
		}

		svc := ner.NewSpacyService(p.ServerURL)

		// State passed between steps.
		var (
			tasks    []annotation.Task
			tally    *evaluator.Tally
			accuracy map[string]float64
			runID    = uuid.New().String()
			outcome  *trainer.Outcome
		)

		steps := []pipeline.Step{
			{
				Name: "load-tasks",
				Run: func(ctx context.Context) error {
					tasks, err = loadTasks(ctx, client, p)
					if err != nil {
						return err
					}
					logf("Loaded %d annotation tasks from gs://%s/%s\n",
						len(tasks), p.AnnotationBucket, p.AnnotationObject)
					return nil
				},
			},
			{
				Name: "evaluate",
				Run: func(ctx context.Context) error {
					tally, err = evaluator.Count(tasks)
					if err != nil {
						return err
					}
					accuracy = tally.Accuracy()
					return printAccuracy(os.Stderr, accuracy)
				},
			},
			{
				Name: "record",
				Run: func(ctx context.Context) error {
					if db == nil {
						return nil
					}
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
					return nil
				},
			},
			{
				Name: "train-if-needed",
				Run: func(ctx context.Context) error {
					gate := trainer.New(svc, client, trainer.Config{
						Model:          p.Model,
						BaseModel:      baseModel,
						Threshold:      p.Threshold,
						Iterations:     p.Iterations,
						ArtifactBucket: p.ModelBucket,
						ArtifactObject: p.ModelObject,
					})

					var trainingID string
					if db != nil {
						trainingID = uuid.New().String()
					}

					outcome, err = gate.MaybeTrain(ctx, accuracy, tasks)
					if err != nil {
						return err
					}

					if db != nil && outcome.Trained {
						run := store.TrainingRun{
							ID:             trainingID,
							EvalRunID:      runID,
							Model:          outcome.Model,
							BaseModel:      baseModel,
							Iterations:     p.Iterations,
							ExampleCount:   outcome.ExampleCount,
							ArtifactObject: outcome.ArtifactObject,
							Status:         "completed",
							CreatedAt:      time.Now(),
						}
						if err := db.SaveTrainingRun(ctx, run); err != nil {
							return err
						}
					}
					return nil
				},
			},
		}

		runner := pipeline.New(steps, pipeline.Config{StepTimeout: stepTimeout})
		result := runner.Execute(ctx)
		if err := result.Err(); err != nil {
			return err
		}

		if outcome.Trained {
			fmt.Printf("Retrained %s (accuracy %.2f < threshold %.2f) on %d examples\n",
				outcome.Model, outcome.Accuracy, outcome.Threshold, outcome.ExampleCount)
			fmt.Printf("Artifact uploaded to gs://%s/%s\n", p.ModelBucket, outcome.ArtifactObject)
		} else {
			fmt.Printf("Skipped retraining: %s accuracy %.2f >= threshold %.2f\n",
				outcome.Model, outcome.Accuracy, outcome.Threshold)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().BoolVar(&noStore, "no-store", false, "Do not record runs in the local database")
	trainCmd.Flags().DurationVar(&stepTimeout, "step-timeout", 30*time.Minute, "Timeout applied to each workflow step")
}
