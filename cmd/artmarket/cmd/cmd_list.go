package cmd

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

var cmdList = &cobra.Command{
	Use:   "list <seller> <standard> <asset_id> <unit_price> <quantity>",
	Short: "List an asset for sale.",
	Long:  "List an asset for sale. The standard is ERC721 for unique artworks or ERC1155 for editions, and the seller must have approved the marketplace operator first.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 5 {
			return errors.New("Missing seller, standard, asset id, price, or quantity")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		seller, err := ethaddr.Decode(args[0])
		if err != nil {
			return err
		}

		assetID, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse asset id")
		}

		unitPrice, err := uint256.FromDecimal(args[3])
		if err != nil {
			return errors.Wrap(err, "parse unit price")
		}

		quantity, err := strconv.ParseUint(args[4], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse quantity")
		}

		ref := state.AssetRef{Standard: state.TokenStandard(args[1]), ID: assetID}
		id, err := market.Book.Create(ctx, seller, ref, unitPrice, quantity, events.Now())
		if err != nil {
			return err
		}

		fmt.Printf("Created listing %d\n", id)
		return nil
	},
}
