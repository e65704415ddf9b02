package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
)

var cmdListings = &cobra.Command{
	Use:   "listings [status]",
	Short: "Show projected listings, optionally filtered by status.",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		ix, err := openSyncedIndex(ctx, market, cfg.Indexer.DatabasePath)
		if err != nil {
			return err
		}
		defer ix.Close()

		status := ""
		if len(args) > 0 {
			status = args[0]
		}

		rows, err := ix.Listings(ctx, status)
		if err != nil {
			return err
		}

		return dumpJSON(rows)
	},
}

var cmdSales = &cobra.Command{
	Use:   "sales",
	Short: "Show projected sales in settlement order.",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		ix, err := openSyncedIndex(ctx, market, cfg.Indexer.DatabasePath)
		if err != nil {
			return err
		}
		defer ix.Close()

		rows, err := ix.Sales(ctx)
		if err != nil {
			return err
		}

		return dumpJSON(rows)
	},
}

var cmdProvenance = &cobra.Command{
	Use:   "provenance <standard> <asset_id>",
	Short: "Show the provenance trail of an asset.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.New("Missing standard or asset id")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		assetID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse asset id")
		}

		ix, err := openSyncedIndex(ctx, market, cfg.Indexer.DatabasePath)
		if err != nil {
			return err
		}
		defer ix.Close()

		rows, err := ix.Provenance(ctx, args[0], assetID)
		if err != nil {
			return err
		}

		return dumpJSON(rows)
	},
}
