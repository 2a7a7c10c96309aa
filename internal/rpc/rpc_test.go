package rpc

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	gethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethRpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	config "github.com/thirdweb-dev/hmy-formatter/configs"
	"github.com/thirdweb-dev/hmy-formatter/internal/metrics"
)

const (
	testFrom   = "0x971add32ea87f10bd192671630be3be8a11b8623"
	testTo     = "0x0734d56da60852a03e2aafae8a36ffd8c12b32f1"
	testTxHash = "0x2c8e3c1f2f2fa4ecd08c2c9f9d7e7ad7c8c3cea2d49cb1b5ccde2cb3c4d5e6f7"
	missingTx  = "0x00000000000000000000000000000000000000000000000000000000000000aa"
)

// hmyService answers the subset of the hmy namespace the client uses.
type hmyService struct{}

func blockHash(number *big.Int) string {
	return gethCommon.BigToHash(new(big.Int).Add(number, big.NewInt(1))).Hex()
}

func (s *hmyService) GetBlockByNumber(number string, full bool) (map[string]interface{}, error) {
	n, err := hexutil.DecodeBig(number)
	if err != nil {
		return nil, err
	}
	if n.Int64() >= 1000 {
		return nil, nil
	}
	block := map[string]interface{}{
		"hash":       blockHash(n),
		"parentHash": blockHash(new(big.Int).Sub(n, big.NewInt(1))),
		"number":     hexutil.EncodeBig(n),
		"timestamp":  "0x5f5e100",
		"nonce":      "0x0",
		"difficulty": "0x0",
		"gasLimit":   "0x4c4b400",
		"gasUsed":    "0x5208",
		"miner":      testFrom,
		"extraData":  "0x",
	}
	if full {
		tx := transaction()
		tx["blockHash"] = block["hash"]
		tx["blockNumber"] = block["number"]
		block["transactions"] = []interface{}{tx}
	} else {
		block["transactions"] = []interface{}{testTxHash}
	}
	return block, nil
}

func (s *hmyService) GetTransactionByHash(hash string) (map[string]interface{}, error) {
	if hash != testTxHash {
		return nil, nil
	}
	return transaction(), nil
}

func (s *hmyService) GetTransactionReceipt(hash string) (map[string]interface{}, error) {
	if hash != testTxHash {
		return nil, nil
	}
	return map[string]interface{}{
		"to":                testTo,
		"from":              testFrom,
		"transactionIndex":  "0x0",
		"gasUsed":           "0x5208",
		"blockHash":         blockHash(big.NewInt(16)),
		"transactionHash":   testTxHash,
		"blockNumber":       "0x10",
		"cumulativeGasUsed": "0x5208",
		"status":            "0x1",
		"logs":              []interface{}{},
	}, nil
}

func (s *hmyService) BlockNumber() hexutil.Uint64 {
	return 999
}

func transaction() map[string]interface{} {
	return map[string]interface{}{
		"hash":             testTxHash,
		"blockHash":        blockHash(big.NewInt(16)),
		"blockNumber":      "0x10",
		"transactionIndex": "0x0",
		"from":             testFrom,
		"to":               testTo,
		"gas":              "0x5208",
		"gasPrice":         "0x3b9aca00",
		"value":            "0xde0b6b3a7640000",
		"nonce":            "0x1",
		"input":            "0x",
	}
}

func newTestClient(t *testing.T, shardID uint32) *Client {
	t.Helper()
	server := gethRpc.NewServer()
	require.NoError(t, server.RegisterName("hmy", &hmyService{}))
	t.Cleanup(server.Stop)

	client := NewClient(gethRpc.DialInProc(server), shardID)
	t.Cleanup(client.Close)
	return client
}

func blockNumbers(from, to int64) []*big.Int {
	numbers := make([]*big.Int, 0, to-from+1)
	for i := from; i <= to; i++ {
		numbers = append(numbers, big.NewInt(i))
	}
	return numbers
}

func TestGetBlocks(t *testing.T) {
	client := newTestClient(t, 2)

	results := client.GetBlocks(context.Background(), blockNumbers(1, 3))
	require.Len(t, results, 3)
	for i, result := range results {
		require.NoError(t, result.Error)
		assert.Equal(t, int64(i+1), result.BlockNumber.Int64())
		assert.Equal(t, uint64(i+1), result.Data.Number)
		assert.Equal(t, uint32(2), result.Data.ShardID)
		assert.Equal(t, []string{testTxHash}, result.Data.Transactions)
		require.NotNil(t, result.Data.Miner)
		assert.Equal(t, gethCommon.HexToAddress(testFrom).Hex(), *result.Data.Miner)
	}
}

func TestGetBlocksInChunks(t *testing.T) {
	previous := config.Cfg.RPC.Blocks
	config.Cfg.RPC.Blocks.BlocksPerRequest = 2
	t.Cleanup(func() { config.Cfg.RPC.Blocks = previous })

	client := newTestClient(t, 0)
	assert.Equal(t, 2, client.blocksPerRequest.Blocks)

	results := client.GetBlocks(context.Background(), blockNumbers(10, 16))
	require.Len(t, results, 7)
	for i, result := range results {
		require.NoError(t, result.Error)
		assert.Equal(t, uint64(10+i), result.Data.Number, "results keep the request order")
	}
}

func TestGetBlocksMissing(t *testing.T) {
	client := newTestClient(t, 0)

	results := client.GetBlocks(context.Background(), []*big.Int{big.NewInt(5), big.NewInt(1000)})
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Error)
	assert.Error(t, results[1].Error)
	assert.Nil(t, results[1].Data)
}

func TestGetFullBlocks(t *testing.T) {
	client := newTestClient(t, 1)

	results := client.GetFullBlocks(context.Background(), blockNumbers(16, 16))
	require.Len(t, results, 1)
	require.NoError(t, results[0].Error)

	block := results[0].Data
	assert.Equal(t, uint32(1), block.ShardID)
	require.Len(t, block.Transactions, 1)
	tx := block.Transactions[0]
	assert.Equal(t, testTxHash, tx.Hash)
	assert.Equal(t, "21000", tx.GasLimit.String())
	assert.Equal(t, "0x", tx.Data)
	require.NotNil(t, tx.BlockNumber)
	assert.Equal(t, uint64(16), *tx.BlockNumber)
}

func TestGetTransactions(t *testing.T) {
	client := newTestClient(t, 0)

	results := client.GetTransactions(context.Background(), []string{testTxHash, missingTx})
	require.Len(t, results, 2)
	require.NoError(t, results[0].Error)
	assert.Equal(t, gethCommon.HexToAddress(testFrom).Hex(), results[0].Data.From)
	assert.Equal(t, "1000000000000000000", results[0].Data.Value.String())

	assert.Equal(t, missingTx, results[1].Hash)
	assert.ErrorContains(t, results[1].Error, "not found")
}

func TestGetReceipts(t *testing.T) {
	client := newTestClient(t, 0)

	results := client.GetReceipts(context.Background(), []string{testTxHash})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Error)
	assert.Equal(t, uint64(16), results[0].Data.BlockNumber)
	assert.Empty(t, results[0].Data.Logs)
}

func TestGetLatestBlockNumber(t *testing.T) {
	client := newTestClient(t, 0)

	number, err := client.GetLatestBlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(999), number.Int64())
}

func TestUnknownNamespace(t *testing.T) {
	previous := config.Cfg.RPC.Namespace
	config.Cfg.RPC.Namespace = "eth"
	t.Cleanup(func() { config.Cfg.RPC.Namespace = previous })

	client := newTestClient(t, 0)
	err := client.checkGetBlockByNumberSupport(context.Background())
	assert.ErrorContains(t, err, fmt.Sprintf("%s method not supported", "eth_getBlockByNumber"))

	results := client.GetTransactions(context.Background(), []string{testTxHash})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Error)
}

func TestMetrics(t *testing.T) {
	client := newTestClient(t, 0)
	ctx := context.Background()

	missing := testutil.ToFloat64(metrics.MissingRecords.WithLabelValues(kindTransaction))
	formatted := testutil.ToFloat64(metrics.FormattedRecords.WithLabelValues(kindTransaction))
	requests := testutil.ToFloat64(metrics.RPCBatchRequests.WithLabelValues("hmy_getTransactionByHash"))

	client.GetTransactions(ctx, []string{testTxHash, missingTx})

	assert.Equal(t, missing+1, testutil.ToFloat64(metrics.MissingRecords.WithLabelValues(kindTransaction)))
	assert.Equal(t, formatted+1, testutil.ToFloat64(metrics.FormattedRecords.WithLabelValues(kindTransaction)))
	assert.Equal(t, requests+1, testutil.ToFloat64(metrics.RPCBatchRequests.WithLabelValues("hmy_getTransactionByHash")))

	client.GetBlocks(ctx, []*big.Int{big.NewInt(42), big.NewInt(7), big.NewInt(1000)})
	assert.Equal(t, float64(42), testutil.ToFloat64(metrics.LastFetchedBlock))
}

func TestGetBlocksBatchDelay(t *testing.T) {
	previous := config.Cfg.RPC.Blocks
	config.Cfg.RPC.Blocks.BlocksPerRequest = 2
	config.Cfg.RPC.Blocks.BatchDelay = 30
	t.Cleanup(func() { config.Cfg.RPC.Blocks = previous })

	client := newTestClient(t, 0)

	start := time.Now()
	results := client.GetBlocks(context.Background(), blockNumbers(1, 6))
	elapsed := time.Since(start)

	require.Len(t, results, 6)
	for i, result := range results {
		require.NoError(t, result.Error)
		assert.Equal(t, uint64(i+1), result.Data.Number)
	}
	// three chunks, the last one starts two delays after the first
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}
