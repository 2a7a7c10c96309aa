package cmd

import (
	"context"
	"math/big"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thirdweb-dev/hmy-formatter/internal/rpc"
)

var (
	fullBlocks bool

	blockCmd = &cobra.Command{
		Use:   "block [number...]",
		Short: "Fetch and format blocks",
		Long:  "Fetch blocks by number (decimal, 0x hex or latest) and print them formatted for the configured shard",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			RunBlock(cmd, args)
		},
	}
)

func init() {
	blockCmd.Flags().BoolVar(&fullBlocks, "full", false, "Include full transaction objects instead of hashes")
}

func RunBlock(cmd *cobra.Command, args []string) {
	rpcClient, err := rpc.Initialize()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RPC")
	}
	defer rpcClient.Close()

	ctx := context.Background()
	blockNumbers := make([]*big.Int, 0, len(args))
	for _, arg := range args {
		if arg == "latest" {
			latest, err := rpcClient.GetLatestBlockNumber(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to get latest block number")
			}
			blockNumbers = append(blockNumbers, latest)
			continue
		}
		blockNumber, ok := new(big.Int).SetString(arg, 0)
		if !ok || blockNumber.Sign() < 0 {
			log.Fatal().Msgf("Failed to parse block number %q", arg)
		}
		blockNumbers = append(blockNumbers, blockNumber)
	}
	log.Debug().Msgf("Fetching %d blocks from shard %d", len(blockNumbers), rpcClient.GetShardID())

	output := make([]result, 0, len(blockNumbers))
	if fullBlocks {
		for _, block := range rpcClient.GetFullBlocks(ctx, blockNumbers) {
			output = append(output, newResult(block.BlockNumber.String(), block.Data, block.Error))
		}
	} else {
		for _, block := range rpcClient.GetBlocks(ctx, blockNumbers) {
			output = append(output, newResult(block.BlockNumber.String(), block.Data, block.Error))
		}
	}
	printJSON(output)
}
