package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

var cmdApprove = &cobra.Command{
	Use:   "approve <owner> <standard> <asset_id>",
	Short: "Approve the marketplace operator to move an asset.",
	Long:  "Approve the marketplace operator to move an asset. For a unique artwork the approval covers that token; for an edition it covers all of the owner's units.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 3 {
			return errors.New("Missing owner, standard, or asset id")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		owner, err := ethaddr.Decode(args[0])
		if err != nil {
			return err
		}

		switch state.TokenStandard(args[1]) {
		case state.StandardUnique:
			tokenID, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return errors.Wrap(err, "parse token id")
			}
			if err := market.Artworks.Approve(ctx, owner, market.Operator, tokenID); err != nil {
				return err
			}

		case state.StandardEdition:
			if err := market.Editions.SetApprovalForAll(ctx, owner, market.Operator, true); err != nil {
				return err
			}

		default:
			return errors.Errorf("Unknown token standard : %s", args[1])
		}

		fmt.Printf("Approved operator %s\n", market.Operator)
		return nil
	},
}
