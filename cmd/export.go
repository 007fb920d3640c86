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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/artefactory-fr/nertrain/internal/annotation"
	"github.com/artefactory-fr/nertrain/internal/gcs"
	"github.com/artefactory-fr/nertrain/internal/trainfmt"
)

var (
	exportInput  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Format the annotation export into training examples",
	Long: `Convert the annotation export into JSONL training examples, one
(text, entities) pair per line. Tasks without any accepted entity span are
dropped. Reads from GCS using the profile, or from a local file with
--input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var raw []byte
		if exportInput != "" {
			data, err := os.ReadFile(exportInput)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			raw = data
		} else {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			client, err := gcs.New(ctx, p.Credentials)
			if err != nil {
				return err
			}
			defer client.Close()

			raw, err = client.DownloadBytes(ctx, p.AnnotationBucket, p.AnnotationObject)
			if err != nil {
				return err
			}
		}

		tasks, err := annotation.Parse(raw)
		if err != nil {
			return err
		}

		examples := trainfmt.Format(tasks)
		logf("Formatted %d training examples from %d tasks\n", len(examples), len(tasks))

		if err := os.MkdirAll(filepath.Dir(exportOutput), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		out, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		if err := trainfmt.WriteJSONL(out, examples); err != nil {
			return err
		}
		fmt.Printf("Wrote %d examples to %s\n", len(examples), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "Local annotation export file (skips GCS download)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "./train_data/train.jsonl", "Output JSONL file")
}
