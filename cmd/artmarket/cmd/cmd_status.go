package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
)

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Check storage health and print marketplace totals.",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		masterDB := bootstrap.NewMasterDB(ctx, cfg)

		if err := masterDB.StatusCheck(ctx); err != nil {
			return err
		}

		market := bootstrap.NewMarket(ctx, cfg, masterDB)

		fmt.Printf("Storage OK\n")
		fmt.Printf("Artworks %d\n", market.Artworks.TotalSupply())
		fmt.Printf("Editions %d\n", market.Editions.TotalEditions())
		fmt.Printf("Listings %d\n", market.Book.Total())
		fmt.Printf("Journal records %d\n", market.Journal.Len())
		fmt.Printf("Platform fee %d bps\n", market.Fees.Bps())

		return nil
	},
}
