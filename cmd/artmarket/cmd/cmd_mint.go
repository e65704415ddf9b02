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

var cmdMint = &cobra.Command{
	Use:   "mint <creator> <title> <royalty_bps>",
	Short: "Mint a unique artwork owned by its creator.",
	Long:  "Mint a unique artwork owned by its creator. The content hash is derived from the title and medium unless --content supplies the artwork bytes.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 3 {
			return errors.New("Missing creator, title, or royalty")
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

		medium, _ := c.Flags().GetString("medium")
		tokenURI, _ := c.Flags().GetString("uri")
		content, _ := c.Flags().GetString("content")
		if len(content) == 0 {
			content = args[1] + "/" + medium
		}

		now := events.Now()
		id, err := market.Artworks.Mint(ctx, creator, args[1], medium, now,
			state.NewHash32([]byte(content)), tokenURI, uint32(royaltyBps), now)
		if err != nil {
			return err
		}

		fmt.Printf("Minted artwork %d\n", id)
		return nil
	},
}

func init() {
	cmdMint.Flags().String("medium", "", "medium of the artwork")
	cmdMint.Flags().String("uri", "", "token URI for the artwork metadata")
	cmdMint.Flags().String("content", "", "artwork content to hash")
}
