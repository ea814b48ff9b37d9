// Package duplicates handles the duplicate detection commands
package duplicates

import (
	"encoding/json"
	"fmt"
	"os"

	"jmoreau/txintel/cmd/root"
	"jmoreau/txintel/internal/container"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

var (
	summary bool
	csvFile string
)

// Cmd represents the duplicates command
var Cmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Detect duplicate transactions",
	Long: `Scan a user's transactions, group them by their identity fingerprint and
report every group with more than one member. With --summary the groups are
aggregated per import method.`,
	RunE: duplicatesFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Aggregate groups per import method")
	Cmd.Flags().StringVarP(&csvFile, "csv", "o", "", "Write the group report to a CSV file")
}

func duplicatesFunc(cmd *cobra.Command, args []string) error {
	c, err := container.NewContainer(cmd.Context(), root.Cfg)
	if err != nil {
		return err
	}

	analyzer, err := c.Analyzer()
	if err != nil {
		return err
	}

	groups, err := analyzer.FindDuplicateGroups(cmd.Context(), root.UserID)
	if err != nil {
		return err
	}

	root.Log.WithField("groups", len(groups)).Info("Duplicate scan complete")

	if csvFile != "" {
		file, err := os.Create(csvFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", csvFile, err)
		}
		defer file.Close()
		if err := gocsv.MarshalFile(&groups, file); err != nil {
			return fmt.Errorf("failed to write CSV report: %w", err)
		}
		root.Log.WithField("file", csvFile).Info("Wrote duplicate report")
	}

	var out []byte
	if summary {
		out, err = json.MarshalIndent(analyzer.Summarize(groups), "", "  ")
	} else {
		out, err = json.MarshalIndent(groups, "", "  ")
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
