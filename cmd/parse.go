package cmd

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	config "github.com/thirdweb-dev/hmy-formatter/configs"
	"github.com/thirdweb-dev/hmy-formatter/internal/common"
	"github.com/thirdweb-dev/hmy-formatter/internal/formatter"
)

var (
	parseCmd = &cobra.Command{
		Use:   "parse [raw]",
		Short: "Decode a signed raw transaction",
		Long:  "Decode a hex encoded plain or staking transaction and recover its sender",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			RunParse(cmd, args)
		},
	}

	requestCmd = &cobra.Command{
		Use:   "request [json]",
		Short: "Normalize a transaction request",
		Long:  "Normalize a transaction request given as an argument or on stdin, attaching the staking msg when a type is set",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			RunRequest(cmd, args)
		},
	}

	addressCmd = &cobra.Command{
		Use:   "address [address]",
		Short: "Show the hex, checksum and one1 forms of an address",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			RunAddress(cmd, args)
		},
	}
)

func RunParse(cmd *cobra.Command, args []string) {
	f := formatter.New(config.Cfg.Formatter.ShardID)
	tx, err := f.Transaction(strings.TrimSpace(args[0]))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse transaction")
	}
	printJSON(tx)
}

func RunRequest(cmd *cobra.Command, args []string) {
	var reader io.Reader = os.Stdin
	if len(args) == 1 {
		reader = strings.NewReader(args[0])
	}

	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	var value map[string]interface{}
	if err := decoder.Decode(&value); err != nil {
		log.Fatal().Err(err).Msg("Failed to decode transaction request")
	}

	f := formatter.New(config.Cfg.Formatter.ShardID)
	request, err := f.TransactionRequest(value)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to format transaction request")
	}
	printJSON(request)
}

func RunAddress(cmd *cobra.Command, args []string) {
	address, err := common.GetAddress(strings.TrimSpace(args[0]))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse address")
	}
	printJSON(address)
}
