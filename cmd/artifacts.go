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
	"path"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artefactory-fr/nertrain/internal/gcs"
)

var artifactsPrefix string

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Manage trained model artifacts in object storage",
}

var artifactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List model artifacts in the profile's model bucket",
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

		prefix := artifactsPrefix
		if prefix == "" {
			prefix = path.Dir(p.ModelObject)
		}

		objects, err := client.List(ctx, p.ModelBucket, prefix)
		if err != nil {
			return err
		}

		if len(objects) == 0 {
			fmt.Printf("No artifacts under gs://%s/%s\n", p.ModelBucket, prefix)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "OBJECT\tSIZE\tUPDATED")
		for _, obj := range objects {
			fmt.Fprintf(w, "%s\t%d\t%s\n", obj.Name, obj.Size, obj.Updated.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(artifactsCmd)

	artifactsCmd.PersistentFlags().StringVar(&artifactsPrefix, "prefix", "", "Object prefix (default: the model object's directory)")

	artifactsCmd.AddCommand(artifactsListCmd)
}
