package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"p9e.in/washreport/models"
)

var previewCatalog string

// previewCmd renders the card for a report without sending it.
var previewCmd = &cobra.Command{
	Use:   "preview <report.json|->",
	Short: "Print the Trello card a report would produce",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var form models.ReportForm
		if err := json.NewDecoder(in).Decode(&form); err != nil {
			return fmt.Errorf("decode report: %w", err)
		}
		report := form.Report()

		catalog, err := models.LoadCatalog(previewCatalog)
		if err != nil {
			return err
		}
		if err := catalog.CheckCatalog(report); err != nil {
			return err
		}
		if err := models.Validate(report); err != nil {
			fields := models.ValidationErrors(err)
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", k, fields[k])
			}
			return fmt.Errorf("report is not submittable")
		}

		card := models.NewCard(report)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Title: %s\n\n%s\n", card.Name, card.Desc)
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewCatalog, "catalog", "", "catalog YAML file (defaults to the built-in catalog)")
}
