package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	configs "github.com/thirdweb-dev/hmy-formatter/configs"
	customLogger "github.com/thirdweb-dev/hmy-formatter/internal/log"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "hmy-formatter",
		Short: "Format Harmony blocks, transactions and receipts",
		Long:  "Fetch Harmony records over JSON-RPC or read them from input, and print them normalized and shard tagged as JSON",
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yml)")
	rootCmd.PersistentFlags().String("rpc-url", "", "RPC Url of the Harmony node")
	rootCmd.PersistentFlags().String("rpc-namespace", "", "JSON-RPC method namespace, hmy or eth")
	rootCmd.PersistentFlags().Int("rpc-blocks-blocksPerRequest", 0, "How many blocks to fetch per request")
	rootCmd.PersistentFlags().Int("rpc-blocks-batchDelay", 0, "Milliseconds to wait between batches of blocks when fetching from the RPC")
	rootCmd.PersistentFlags().Int("rpc-transactions-transactionsPerRequest", 0, "How many transactions or receipts to fetch per request")
	rootCmd.PersistentFlags().Int("rpc-transactions-batchDelay", 0, "Milliseconds to wait between batches of transactions when fetching from the RPC")
	rootCmd.PersistentFlags().String("log-level", "", "Log level to use for the application")
	rootCmd.PersistentFlags().Bool("log-prettify", false, "Whether to prettify the log output")
	rootCmd.PersistentFlags().Uint32("formatter-shardId", 0, "Shard id stamped on every formatted block")
	viper.BindPFlag("rpc.url", rootCmd.PersistentFlags().Lookup("rpc-url"))
	viper.BindPFlag("rpc.namespace", rootCmd.PersistentFlags().Lookup("rpc-namespace"))
	viper.BindPFlag("rpc.blocks.blocksPerRequest", rootCmd.PersistentFlags().Lookup("rpc-blocks-blocksPerRequest"))
	viper.BindPFlag("rpc.blocks.batchDelay", rootCmd.PersistentFlags().Lookup("rpc-blocks-batchDelay"))
	viper.BindPFlag("rpc.transactions.transactionsPerRequest", rootCmd.PersistentFlags().Lookup("rpc-transactions-transactionsPerRequest"))
	viper.BindPFlag("rpc.transactions.batchDelay", rootCmd.PersistentFlags().Lookup("rpc-transactions-batchDelay"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.prettify", rootCmd.PersistentFlags().Lookup("log-prettify"))
	viper.BindPFlag("formatter.shardId", rootCmd.PersistentFlags().Lookup("formatter-shardId"))
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(receiptCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(watchCmd)
}

func initConfig() {
	if err := configs.LoadConfig(cfgFile); err != nil {
		customLogger.InitLogger()
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	customLogger.InitLogger()
}
