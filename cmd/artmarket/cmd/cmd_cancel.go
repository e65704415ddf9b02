package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

var cmdCancel = &cobra.Command{
	Use:   "cancel <seller> <listing_id>",
	Short: "Cancel a listing. Only the seller may cancel.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.New("Missing seller or listing id")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		seller, err := ethaddr.Decode(args[0])
		if err != nil {
			return err
		}

		listingID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse listing id")
		}

		if err := market.Book.Cancel(ctx, seller, listingID, events.Now()); err != nil {
			return err
		}

		fmt.Printf("Cancelled listing %d\n", listingID)
		return nil
	},
}
