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
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/artefactory-fr/nertrain/internal/annotation"
	"github.com/artefactory-fr/nertrain/internal/config"
	"github.com/artefactory-fr/nertrain/internal/gcs"
)

var (
	configFile  string
	profileName string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./nertrain.yaml)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "train", "Configuration profile name")
}

func loadProfile() (*config.Profile, error) {
	p, err := config.Load(configFile, profileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

// loadTasks downloads and decodes the annotation export for the profile.
func loadTasks(ctx context.Context, client *gcs.Client, p *config.Profile) ([]annotation.Task, error) {
	data, err := client.DownloadBytes(ctx, p.AnnotationBucket, p.AnnotationObject)
	if err != nil {
		return nil, err
	}
	return annotation.Parse(data)
}

// printAccuracy renders the per-model accuracy mapping as a table, models
// in lexical order.
func printAccuracy(w io.Writer, accuracy map[string]float64) error {
	models := make([]string, 0, len(accuracy))
	for model := range accuracy {
		models = append(models, model)
	}
	sort.Strings(models)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tACCURACY")
	for _, model := range models {
		fmt.Fprintf(tw, "%s\t%.2f\n", model, accuracy[model])
	}
	return tw.Flush()
}

func logf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// shortID abbreviates a run ID for table output. IDs are normally UUIDs,
// but rows written by other tooling may be shorter.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
