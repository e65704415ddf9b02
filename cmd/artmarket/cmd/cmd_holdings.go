package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

var cmdHoldings = &cobra.Command{
	Use:   "holdings <address>",
	Short: "Show an address's ledger balance and edition holdings.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("Missing address")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		addr, err := ethaddr.Decode(args[0])
		if err != nil {
			return err
		}

		balance, err := market.Ledger.Balance(ctx, addr)
		if err != nil {
			return err
		}
		fmt.Printf("Funds %s\n", balance.Dec())

		if editionArg, _ := c.Flags().GetString("edition"); len(editionArg) > 0 {
			editionID, err := strconv.ParseUint(editionArg, 10, 64)
			if err != nil {
				return errors.Wrap(err, "parse edition id")
			}

			units, err := market.Editions.BalanceOf(ctx, addr, editionID)
			if err != nil {
				return err
			}
			fmt.Printf("Edition %d units %d\n", editionID, units)
			return nil
		}

		// Walk every edition for the full holdings picture.
		total := market.Editions.TotalEditions()
		for editionID := uint64(1); editionID <= total; editionID++ {
			units, err := market.Editions.BalanceOf(ctx, addr, editionID)
			if err != nil {
				return err
			}
			if units > 0 {
				fmt.Printf("Edition %d units %d\n", editionID, units)
			}
		}

		supply := market.Artworks.TotalSupply()
		for tokenID := uint64(1); tokenID <= supply; tokenID++ {
			owner, err := market.Artworks.OwnerOf(ctx, tokenID)
			if err != nil {
				return err
			}
			if owner.Equal(addr) {
				fmt.Printf("Artwork %d\n", tokenID)
			}
		}

		return nil
	},
}

func init() {
	cmdHoldings.Flags().String("edition", "", "only show units of this edition")
}
