package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thirdweb-dev/hmy-formatter/internal/rpc"
)

var (
	txCmd = &cobra.Command{
		Use:   "tx [hash...]",
		Short: "Fetch and format transactions",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			RunTx(cmd, args)
		},
	}

	receiptCmd = &cobra.Command{
		Use:   "receipt [hash...]",
		Short: "Fetch and format transaction receipts",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			RunReceipt(cmd, args)
		},
	}
)

func RunTx(cmd *cobra.Command, args []string) {
	rpcClient, err := rpc.Initialize()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RPC")
	}
	defer rpcClient.Close()

	output := make([]result, 0, len(args))
	for _, tx := range rpcClient.GetTransactions(context.Background(), args) {
		output = append(output, newResult(tx.Hash, tx.Data, tx.Error))
	}
	printJSON(output)
}

func RunReceipt(cmd *cobra.Command, args []string) {
	rpcClient, err := rpc.Initialize()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RPC")
	}
	defer rpcClient.Close()

	output := make([]result, 0, len(args))
	for _, receipt := range rpcClient.GetReceipts(context.Background(), args) {
		output = append(output, newResult(receipt.Hash, receipt.Data, receipt.Error))
	}
	printJSON(output)
}
