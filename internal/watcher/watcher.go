package watcher

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/hmy-formatter/configs"
	"github.com/thirdweb-dev/hmy-formatter/internal/metrics"
	"github.com/thirdweb-dev/hmy-formatter/internal/rpc"
)

const DEFAULT_BLOCKS_PER_POLL = 10
const DEFAULT_POLL_INTERVAL = 2000

// Handler receives every formatted block in order. block is a *common.Block,
// or a *common.BlockWithTransactions when the watcher runs with full blocks.
type Handler func(blockNumber *big.Int, block interface{})

// Watcher follows the chain head and emits new blocks as they appear.
type Watcher struct {
	rpc           rpc.IRPCClient
	intervalMs    int64
	blocksPerPoll int64
	full          bool
	nextBlock     *big.Int
}

type WatcherOption func(*Watcher)

func WithFromBlock(blockNumber *big.Int) WatcherOption {
	return func(w *Watcher) {
		if blockNumber == nil {
			return
		}
		w.nextBlock = new(big.Int).Set(blockNumber)
	}
}

func WithFullBlocks(full bool) WatcherOption {
	return func(w *Watcher) {
		w.full = full
	}
}

func NewWatcher(rpc rpc.IRPCClient, opts ...WatcherOption) *Watcher {
	blocksPerPoll := config.Cfg.Watch.BlocksPerPoll
	if blocksPerPoll == 0 {
		blocksPerPoll = DEFAULT_BLOCKS_PER_POLL
	}

	interval := config.Cfg.Watch.Interval
	if interval == 0 {
		interval = DEFAULT_POLL_INTERVAL
	}

	watcher := &Watcher{
		rpc:           rpc,
		intervalMs:    int64(interval),
		blocksPerPoll: int64(blocksPerPoll),
		full:          config.Cfg.Watch.Full,
	}
	if config.Cfg.Watch.FromBlock > 0 {
		watcher.nextBlock = new(big.Int).SetUint64(config.Cfg.Watch.FromBlock)
	}

	for _, opt := range opts {
		opt(watcher)
	}
	return watcher
}

// NextBlock is the next block number the watcher will request, or nil before
// the first poll when no start block was given.
func (w *Watcher) NextBlock() *big.Int {
	if w.nextBlock == nil {
		return nil
	}
	return new(big.Int).Set(w.nextBlock)
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, handler Handler) {
	interval := time.Duration(w.intervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Msgf("Watcher running on shard %d with interval %s", w.rpc.GetShardID(), interval)
	for {
		if _, err := w.Poll(ctx, handler); err != nil {
			log.Warn().Err(err).Msg("Watcher poll failed, retrying on next tick")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("Watcher shutting down")
			return
		case <-ticker.C:
		}
	}
}

// Poll fetches the blocks between the next block and the chain head, up to
// blocksPerPoll of them. Blocks are handed over in order and the watcher
// stops at the first block that failed, so it is retried on the next poll.
func (w *Watcher) Poll(ctx context.Context, handler Handler) (int, error) {
	latest, err := w.rpc.GetLatestBlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	head, _ := latest.Float64()
	metrics.ChainHead.Set(head)

	if w.nextBlock == nil {
		w.nextBlock = new(big.Int).Set(latest)
	}
	if w.nextBlock.Cmp(latest) > 0 {
		log.Debug().Msgf("No new blocks, next block %s, head %s", w.nextBlock.String(), latest.String())
		return 0, nil
	}

	end := new(big.Int).Add(w.nextBlock, big.NewInt(w.blocksPerPoll-1))
	if end.Cmp(latest) > 0 {
		end = latest
	}
	blockNumbers := make([]*big.Int, 0, w.blocksPerPoll)
	for i := new(big.Int).Set(w.nextBlock); i.Cmp(end) <= 0; i.Add(i, big.NewInt(1)) {
		blockNumbers = append(blockNumbers, new(big.Int).Set(i))
	}

	emitted := 0
	if w.full {
		for _, result := range w.rpc.GetFullBlocks(ctx, blockNumbers) {
			if result.Error != nil {
				return emitted, fmt.Errorf("failed to fetch block %s: %w", result.BlockNumber.String(), result.Error)
			}
			w.emit(handler, result.BlockNumber, result.Data)
			emitted++
		}
	} else {
		for _, result := range w.rpc.GetBlocks(ctx, blockNumbers) {
			if result.Error != nil {
				return emitted, fmt.Errorf("failed to fetch block %s: %w", result.BlockNumber.String(), result.Error)
			}
			w.emit(handler, result.BlockNumber, result.Data)
			emitted++
		}
	}
	return emitted, nil
}

func (w *Watcher) emit(handler Handler, blockNumber *big.Int, block interface{}) {
	handler(blockNumber, block)
	metrics.WatchedBlocks.Inc()
	w.nextBlock = new(big.Int).Add(blockNumber, big.NewInt(1))
}

