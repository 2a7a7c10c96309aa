package rpc

import (
	"context"
	"sync"
	"time"

	gethRpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog/log"
	"github.com/thirdweb-dev/hmy-formatter/internal/common"
	"github.com/thirdweb-dev/hmy-formatter/internal/metrics"
)

type RPCFetchBatchResult[K any, T any] struct {
	Key    K
	Error  error
	Result T
}

// RPCFetchInBatches splits keys into chunks of batchSize and fetches the chunks
// concurrently, starting each chunk batchDelay milliseconds after the previous
// one. Results keep the order of keys.
func RPCFetchInBatches[K any, T any](rpc *Client, ctx context.Context, keys []K, batchSize int, batchDelay int, method string, argsFunc func(K) []interface{}) []RPCFetchBatchResult[K, T] {
	if len(keys) <= batchSize {
		return RPCFetchSingleBatch[K, T](rpc, ctx, keys, method, argsFunc)
	}
	chunks := common.SliceToChunks[K](keys, batchSize)

	log.Debug().Msgf("Fetching %s for %d keys in %d chunks of max %d requests", method, len(keys), len(chunks), batchSize)

	var wg sync.WaitGroup
	chunkResults := make([][]RPCFetchBatchResult[K, T], len(chunks))

	for i, chunk := range chunks {
		if i > 0 && batchDelay > 0 {
			time.Sleep(time.Duration(batchDelay) * time.Millisecond)
		}
		wg.Add(1)
		go func(i int, chunk []K) {
			defer wg.Done()
			chunkResults[i] = RPCFetchSingleBatch[K, T](rpc, ctx, chunk, method, argsFunc)
		}(i, chunk)
	}
	wg.Wait()

	results := make([]RPCFetchBatchResult[K, T], 0, len(keys))
	for _, batchResults := range chunkResults {
		results = append(results, batchResults...)
	}

	return results
}

func RPCFetchSingleBatch[K any, T any](rpc *Client, ctx context.Context, keys []K, method string, argsFunc func(K) []interface{}) []RPCFetchBatchResult[K, T] {
	batch := make([]gethRpc.BatchElem, len(keys))
	results := make([]RPCFetchBatchResult[K, T], len(keys))

	for i, key := range keys {
		results[i] = RPCFetchBatchResult[K, T]{Key: key}
		batch[i] = gethRpc.BatchElem{
			Method: method,
			Args:   argsFunc(key),
			Result: new(T),
		}
	}

	metrics.RPCBatchRequests.WithLabelValues(method).Inc()
	start := time.Now()
	err := rpc.RPCClient.BatchCallContext(ctx, batch)
	metrics.RPCBatchDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RPCBatchFailures.WithLabelValues(method).Inc()
		log.Warn().Err(err).Msgf("Batch call to %s failed for %d keys", method, len(keys))
		for i := range results {
			results[i].Error = err
		}
		return results
	}

	for i, elem := range batch {
		if elem.Error != nil {
			results[i].Error = elem.Error
		} else {
			results[i].Result = *elem.Result.(*T)
		}
	}

	return results
}
