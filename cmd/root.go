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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "nertrain",
	Short: "NER model retraining workflow",
	Long: `A workflow that fine-tunes a pretrained NER model from human-reviewed
annotations. It pulls the annotation export from Google Cloud Storage,
scores each model variant against the accepted annotations, and retrains
through an external spaCy model server only when the designated model
falls below the accuracy threshold.

Use "nertrain train --help" for workflow options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
