package cmd

import (
	"fmt"

	"github.com/chrisdamba/foodmatch/internal/factories"
	"github.com/chrisdamba/foodmatch/internal/models"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic order data file",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		count, _ := flags.GetInt("count")
		out, _ := flags.GetString("out")
		minPrep, _ := flags.GetInt("min-prep")
		maxPrep, _ := flags.GetInt("max-prep")
		seed, _ := flags.GetInt64("seed")

		if count <= 0 {
			return fmt.Errorf("count must be positive, got %d", count)
		}
		if minPrep < 0 || maxPrep < minPrep {
			return fmt.Errorf("invalid prep time range [%d, %d]", minPrep, maxPrep)
		}

		records := factories.NewOrderFactory(seed, minPrep, maxPrep).CreateOrderRecords(count)
		if err := models.SaveOrderRecords(out, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d orders to %s\n", len(records), out)
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("count", 100, "Number of orders to generate")
	generateCmd.Flags().String("out", "./orders-data.json", "Output file")
	generateCmd.Flags().Int("min-prep", 2, "Minimum preparation time in seconds")
	generateCmd.Flags().Int("max-prep", 20, "Maximum preparation time in seconds")
	generateCmd.Flags().Int64("seed", 0, "Random seed (0 uses the current time)")
}
