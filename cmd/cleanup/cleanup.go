// Package cleanup handles the duplicate cleanup command
package cleanup

import (
	"encoding/json"
	"fmt"

	"jmoreau/txintel/cmd/root"
	"jmoreau/txintel/internal/container"

	"github.com/spf13/cobra"
)

var confirmed bool

// Cmd represents the cleanup command
var Cmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete duplicate transactions",
	Long: `Detect duplicate groups and delete every member except the oldest record
of each group. Deletion is idempotent: a second run deletes nothing.`,
	RunE: cleanupFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Skip the confirmation prompt")
}

func cleanupFunc(cmd *cobra.Command, args []string) error {
	if !confirmed {
		return fmt.Errorf("cleanup deletes transactions permanently, re-run with --yes to confirm")
	}

	c, err := container.NewContainer(cmd.Context(), root.Cfg)
	if err != nil {
		return err
	}

	engine, err := c.Cleanup()
	if err != nil {
		return err
	}

	result, err := engine.Run(cmd.Context(), root.UserID)
	if err != nil {
		return err
	}

	root.Log.WithField("deleted", result.Deleted).Info("Cleanup complete")

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
