// Package categorize handles the transaction categorization command
package categorize

import (
	"encoding/json"
	"fmt"

	"jmoreau/txintel/cmd/root"
	"jmoreau/txintel/internal/categorizer"
	"jmoreau/txintel/internal/container"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	transactionID string
	merchant      string
	description   string
	amount        string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a transaction",
	Long: `Categorize a transaction using embedding similarity search over
previously-categorized transactions, falling back to user-defined rules and
finally to the default category.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&transactionID, "id", "i", "", "Transaction id")
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name (optional)")
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "0", "Signed transaction amount")
	_ = Cmd.MarkFlagRequired("id")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	c, err := container.NewContainer(cmd.Context(), root.Cfg)
	if err != nil {
		return err
	}

	decision, err := c.Categorizer().Categorize(cmd.Context(), categorizer.Request{
		TransactionID: transactionID,
		UserID:        root.UserID,
		Merchant:      merchant,
		Description:   description,
		Amount:        parsedAmount,
	})
	if err != nil {
		return err
	}

	root.Log.WithField("method", decision.Method).Info("Transaction categorized")

	out, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
