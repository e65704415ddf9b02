package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/pkg/events"
)

var cmdFee = &cobra.Command{
	Use:   "fee [new_bps]",
	Short: "Show or update the platform fee.",
	Long:  "Show the current platform fee, or update it when a new rate is supplied. Updates run as the configured admin address.",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		if len(args) == 0 {
			fmt.Printf("Platform fee %d bps, treasury %s\n", market.Fees.Bps(), market.Fees.Treasury())
			return nil
		}

		newBps, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return errors.Wrap(err, "parse bps")
		}

		if err := market.Fees.UpdatePlatformFee(ctx, market.Admin, uint32(newBps), events.Now()); err != nil {
			return err
		}

		fmt.Printf("Platform fee updated to %d bps\n", newBps)
		return nil
	},
}
