package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	config "github.com/thirdweb-dev/hmy-formatter/configs"
	"github.com/thirdweb-dev/hmy-formatter/internal/rpc"
	"github.com/thirdweb-dev/hmy-formatter/internal/watcher"
)

const DEFAULT_METRICS_ADDR = ":2112"

var (
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Follow the chain head and print new blocks",
		Long:  "Poll the node for new blocks, print each formatted block as one JSON line and serve Prometheus metrics",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			RunWatch(cmd, args)
		},
	}
)

func init() {
	watchCmd.Flags().Int("watch-interval", 0, "Milliseconds between polls")
	watchCmd.Flags().Int("watch-blocksPerPoll", 0, "How many blocks to fetch at most per poll")
	watchCmd.Flags().Uint64("watch-fromBlock", 0, "Block to start from (default is the chain head)")
	watchCmd.Flags().Bool("watch-full", false, "Include full transaction objects instead of hashes")
	watchCmd.Flags().String("metrics-addr", "", "Address of the Prometheus metrics server (default is :2112)")
	viper.BindPFlag("watch.interval", watchCmd.Flags().Lookup("watch-interval"))
	viper.BindPFlag("watch.blocksPerPoll", watchCmd.Flags().Lookup("watch-blocksPerPoll"))
	viper.BindPFlag("watch.fromBlock", watchCmd.Flags().Lookup("watch-fromBlock"))
	viper.BindPFlag("watch.full", watchCmd.Flags().Lookup("watch-full"))
	viper.BindPFlag("metrics.addr", watchCmd.Flags().Lookup("metrics-addr"))
}

func RunWatch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rpcClient, err := rpc.Initialize()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RPC")
	}
	defer rpcClient.Close()

	server := startMetricsServer(metricsAddr())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to stop metrics server")
		}
	}()

	encoder := json.NewEncoder(os.Stdout)
	w := watcher.NewWatcher(rpcClient)
	w.Run(ctx, func(blockNumber *big.Int, block interface{}) {
		if err := encoder.Encode(newResult(blockNumber.String(), block, nil)); err != nil {
			log.Error().Err(err).Msgf("Failed to write block %s", blockNumber.String())
		}
	})
}

func metricsAddr() string {
	if config.Cfg.Metrics.Addr == "" {
		return DEFAULT_METRICS_ADDR
	}
	return config.Cfg.Metrics.Addr
}

func newMetricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func startMetricsServer(addr string) *http.Server {
	server := &http.Server{Addr: addr, Handler: newMetricsMux()}

	log.Info().Msgf("Starting Metrics Server on %s", addr)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return server
}
