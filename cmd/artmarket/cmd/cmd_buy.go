package cmd

import (
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

var cmdBuy = &cobra.Command{
	Use:   "buy <buyer> <listing_id> <quantity> <payment>",
	Short: "Buy from a listing and settle atomically.",
	Long:  "Buy from a listing and settle atomically. Payment above the sale price is refunded and the receipt is printed on success.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 4 {
			return errors.New("Missing buyer, listing id, quantity, or payment")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		buyer, err := ethaddr.Decode(args[0])
		if err != nil {
			return err
		}

		listingID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse listing id")
		}

		quantity, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse quantity")
		}

		payment, err := uint256.FromDecimal(args[3])
		if err != nil {
			return errors.Wrap(err, "parse payment")
		}

		receipt, err := market.Engine.Buy(ctx, buyer, listingID, quantity, payment, events.Now())
		if err != nil {
			return err
		}

		return dumpJSON(receipt)
	},
}
