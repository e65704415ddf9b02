package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

var cmdEdition = &cobra.Command{
	Use:   "edition",
	Short: "Create editions and mint their units.",
}

var cmdEditionCreate = &cobra.Command{
	Use:   "create <creator> <title> <royalty_bps> <max_supply>",
	Short: "Create an edition with a fixed maximum supply.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 4 {
			return errors.New("Missing creator, title, royalty, or max supply")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		creator, err := ethaddr.Decode(args[0])
		if err != nil {
			return err
		}

		royaltyBps, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			return errors.Wrap(err, "parse royalty bps")
		}

		maxSupply, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse max supply")
		}

		medium, _ := c.Flags().GetString("medium")

		now := events.Now()
		id, err := market.Editions.CreateEdition(ctx, creator, args[1], medium, now,
			state.NewHash32([]byte(args[1]+"/"+medium)), uint32(royaltyBps), maxSupply, now)
		if err != nil {
			return err
		}

		fmt.Printf("Created edition %d\n", id)
		return nil
	},
}

var cmdEditionMint = &cobra.Command{
	Use:   "mint <edition_id> <to> <amount>",
	Short: "Mint units of an edition to a holder.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 3 {
			return errors.New("Missing edition id, recipient, or amount")
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		editionID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse edition id")
		}

		to, err := ethaddr.Decode(args[1])
		if err != nil {
			return err
		}

		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse amount")
		}

		if err := market.Editions.MintEdition(ctx, to, editionID, amount, events.Now()); err != nil {
			return err
		}

		fmt.Printf("Minted %d units of edition %d to %s\n", amount, editionID, to)
		return nil
	},
}

func init() {
	cmdEditionCreate.Flags().String("medium", "", "medium of the edition")
	cmdEdition.AddCommand(cmdEditionCreate)
	cmdEdition.AddCommand(cmdEditionMint)
}
