package cmd

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

var cmdDeposit = &cobra.Command{
	Use:   "deposit <address> <amount>",
	Short: "Credit funds to an address on the ledger.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.New("Missing address or amount")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		addr, err := ethaddr.Decode(args[0])
		if err != nil {
			return err
		}

		amount, err := uint256.FromDecimal(args[1])
		if err != nil {
			return errors.Wrap(err, "parse amount")
		}

		if err := market.Ledger.Deposit(ctx, addr, amount); err != nil {
			return err
		}

		balance, err := market.Ledger.Balance(ctx, addr)
		if err != nil {
			return err
		}

		fmt.Printf("Balance of %s is now %s\n", addr, balance.Dec())
		return nil
	},
}
