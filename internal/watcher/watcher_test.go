package watcher

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	config "github.com/thirdweb-dev/hmy-formatter/configs"
	"github.com/thirdweb-dev/hmy-formatter/internal/common"
	"github.com/thirdweb-dev/hmy-formatter/internal/rpc"
)

type MockIRPCClient struct {
	mock.Mock
}

func (m *MockIRPCClient) GetBlocks(ctx context.Context, blockNumbers []*big.Int) []rpc.GetBlocksResult {
	args := m.Called(ctx, blockNumbers)
	return args.Get(0).([]rpc.GetBlocksResult)
}

func (m *MockIRPCClient) GetFullBlocks(ctx context.Context, blockNumbers []*big.Int) []rpc.GetFullBlocksResult {
	args := m.Called(ctx, blockNumbers)
	return args.Get(0).([]rpc.GetFullBlocksResult)
}

func (m *MockIRPCClient) GetTransactions(ctx context.Context, txHashes []string) []rpc.GetTransactionsResult {
	args := m.Called(ctx, txHashes)
	return args.Get(0).([]rpc.GetTransactionsResult)
}

func (m *MockIRPCClient) GetReceipts(ctx context.Context, txHashes []string) []rpc.GetReceiptsResult {
	args := m.Called(ctx, txHashes)
	return args.Get(0).([]rpc.GetReceiptsResult)
}

func (m *MockIRPCClient) GetLatestBlockNumber(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockIRPCClient) GetShardID() uint32 {
	return uint32(m.Called().Int(0))
}

func (m *MockIRPCClient) GetURL() string {
	return m.Called().String(0)
}

func (m *MockIRPCClient) IsWebsocket() bool {
	return m.Called().Bool(0)
}

func (m *MockIRPCClient) Close() {
	m.Called()
}

func setupWatchConfig(t *testing.T, watch config.WatchConfig) {
	t.Helper()
	original := config.Cfg.Watch
	config.Cfg.Watch = watch
	t.Cleanup(func() { config.Cfg.Watch = original })
}

func blockRange(from, to int64) []*big.Int {
	numbers := []*big.Int{}
	for i := from; i <= to; i++ {
		numbers = append(numbers, big.NewInt(i))
	}
	return numbers
}

func matchRange(from, to int64) interface{} {
	return mock.MatchedBy(func(numbers []*big.Int) bool {
		if len(numbers) != int(to-from+1) {
			return false
		}
		for i, n := range numbers {
			if n.Int64() != from+int64(i) {
				return false
			}
		}
		return true
	})
}

func blockResults(numbers []*big.Int) []rpc.GetBlocksResult {
	results := make([]rpc.GetBlocksResult, 0, len(numbers))
	for _, n := range numbers {
		results = append(results, rpc.GetBlocksResult{
			BlockNumber: n,
			Data:        &common.Block{BlockHeader: common.BlockHeader{Number: n.Uint64()}},
		})
	}
	return results
}

type collected struct {
	numbers []int64
	blocks  []interface{}
}

func (c *collected) handle(blockNumber *big.Int, block interface{}) {
	c.numbers = append(c.numbers, blockNumber.Int64())
	c.blocks = append(c.blocks, block)
}

func TestPollStartsAtHead(t *testing.T) {
	setupWatchConfig(t, config.WatchConfig{})
	mockRPC := &MockIRPCClient{}
	mockRPC.On("GetLatestBlockNumber", mock.Anything).Return(big.NewInt(100), nil)
	mockRPC.On("GetBlocks", mock.Anything, matchRange(100, 100)).Return(blockResults(blockRange(100, 100)))

	w := NewWatcher(mockRPC)
	assert.Nil(t, w.NextBlock())

	out := &collected{}
	emitted, err := w.Poll(context.Background(), out.handle)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
	assert.Equal(t, []int64{100}, out.numbers)
	assert.Equal(t, int64(101), w.NextBlock().Int64())
	mockRPC.AssertExpectations(t)
}

func TestPollFromBlockCapsAtBlocksPerPoll(t *testing.T) {
	setupWatchConfig(t, config.WatchConfig{BlocksPerPoll: 5, FromBlock: 10})
	mockRPC := &MockIRPCClient{}
	mockRPC.On("GetLatestBlockNumber", mock.Anything).Return(big.NewInt(30), nil)
	mockRPC.On("GetBlocks", mock.Anything, matchRange(10, 14)).Return(blockResults(blockRange(10, 14)))
	mockRPC.On("GetBlocks", mock.Anything, matchRange(15, 19)).Return(blockResults(blockRange(15, 19)))

	w := NewWatcher(mockRPC)
	assert.Equal(t, int64(10), w.NextBlock().Int64())

	out := &collected{}
	_, err := w.Poll(context.Background(), out.handle)
	require.NoError(t, err)
	_, err = w.Poll(context.Background(), out.handle)
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, out.numbers)
	assert.Equal(t, int64(20), w.NextBlock().Int64())
	mockRPC.AssertExpectations(t)
}

func TestPollStopsAtFailedBlock(t *testing.T) {
	setupWatchConfig(t, config.WatchConfig{BlocksPerPoll: 3})
	mockRPC := &MockIRPCClient{}
	mockRPC.On("GetLatestBlockNumber", mock.Anything).Return(big.NewInt(12), nil)

	results := blockResults(blockRange(10, 12))
	results[1] = rpc.GetBlocksResult{BlockNumber: big.NewInt(11), Error: errors.New("header not found")}
	mockRPC.On("GetBlocks", mock.Anything, matchRange(10, 12)).Return(results)

	w := NewWatcher(mockRPC, WithFromBlock(big.NewInt(10)))
	out := &collected{}
	emitted, err := w.Poll(context.Background(), out.handle)
	assert.ErrorContains(t, err, "failed to fetch block 11")
	assert.Equal(t, 1, emitted)
	assert.Equal(t, []int64{10}, out.numbers)
	assert.Equal(t, int64(11), w.NextBlock().Int64(), "the failed block is retried")
}

func TestPollBehindHead(t *testing.T) {
	setupWatchConfig(t, config.WatchConfig{})
	mockRPC := &MockIRPCClient{}
	mockRPC.On("GetLatestBlockNumber", mock.Anything).Return(big.NewInt(40), nil)

	w := NewWatcher(mockRPC, WithFromBlock(big.NewInt(50)))
	emitted, err := w.Poll(context.Background(), (&collected{}).handle)
	require.NoError(t, err)
	assert.Zero(t, emitted)
	mockRPC.AssertNotCalled(t, "GetBlocks", mock.Anything, mock.Anything)
}

func TestPollLatestBlockError(t *testing.T) {
	setupWatchConfig(t, config.WatchConfig{})
	mockRPC := &MockIRPCClient{}
	mockRPC.On("GetLatestBlockNumber", mock.Anything).Return(nil, errors.New("connection refused"))

	w := NewWatcher(mockRPC)
	_, err := w.Poll(context.Background(), (&collected{}).handle)
	assert.ErrorContains(t, err, "connection refused")
	assert.Nil(t, w.NextBlock())
}

func TestPollFullBlocks(t *testing.T) {
	setupWatchConfig(t, config.WatchConfig{})
	mockRPC := &MockIRPCClient{}
	mockRPC.On("GetLatestBlockNumber", mock.Anything).Return(big.NewInt(7), nil)
	full := &common.BlockWithTransactions{
		BlockHeader:  common.BlockHeader{Number: 7},
		Transactions: []*common.TransactionResponse{{Hash: "0x01"}},
	}
	mockRPC.On("GetFullBlocks", mock.Anything, matchRange(7, 7)).Return([]rpc.GetFullBlocksResult{
		{BlockNumber: big.NewInt(7), Data: full},
	})

	w := NewWatcher(mockRPC, WithFullBlocks(true))
	out := &collected{}
	_, err := w.Poll(context.Background(), out.handle)
	require.NoError(t, err)
	require.Len(t, out.blocks, 1)
	assert.Same(t, full, out.blocks[0])
	mockRPC.AssertNotCalled(t, "GetBlocks", mock.Anything, mock.Anything)
}

func TestRunStopsOnCancel(t *testing.T) {
	setupWatchConfig(t, config.WatchConfig{Interval: 10})
	mockRPC := &MockIRPCClient{}
	mockRPC.On("GetShardID").Return(0)
	mockRPC.On("GetLatestBlockNumber", mock.Anything).Return(big.NewInt(1), nil)
	mockRPC.On("GetBlocks", mock.Anything, matchRange(1, 1)).Return(blockResults(blockRange(1, 1)))

	ctx, cancel := context.WithCancel(context.Background())
	out := &collected{}
	done := make(chan struct{})
	go func() {
		NewWatcher(mockRPC).Run(ctx, func(blockNumber *big.Int, block interface{}) {
			out.handle(blockNumber, block)
			cancel()
		})
		close(done)
	}()

	<-done
	assert.Equal(t, []int64{1}, out.numbers)
}
