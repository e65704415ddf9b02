package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenizedart/settlement/cmd/artmarket/bootstrap"
	"github.com/tokenizedart/settlement/internal/indexer"
)

var cmdSync = &cobra.Command{
	Use:   "sync",
	Short: "Replay the journal into the read model database.",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		market := bootstrap.NewMarket(ctx, cfg, bootstrap.NewMasterDB(ctx, cfg))

		ix, err := indexer.Open(cfg.Indexer.DatabasePath)
		if err != nil {
			return err
		}
		defer ix.Close()

		applied, err := ix.Sync(ctx, market.Journal)
		if err != nil {
			return err
		}

		fmt.Printf("Applied %d records\n", applied)
		return nil
	},
}

// openSyncedIndex opens the read model and brings it up to date with the
// journal before querying.
func openSyncedIndex(ctx context.Context, market *bootstrap.Market, path string) (*indexer.Index, error) {
	ix, err := indexer.Open(path)
	if err != nil {
		return nil, err
	}

	if _, err := ix.Sync(ctx, market.Journal); err != nil {
		ix.Close()
		return nil, err
	}

	return ix, nil
}
