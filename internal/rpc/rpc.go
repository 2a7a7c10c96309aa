package rpc

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethRpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/hmy-formatter/configs"
	"github.com/thirdweb-dev/hmy-formatter/internal/common"
	"github.com/thirdweb-dev/hmy-formatter/internal/formatter"
)

type GetBlocksResult struct {
	BlockNumber *big.Int
	Error       error
	Data        *common.Block
}

type GetFullBlocksResult struct {
	BlockNumber *big.Int
	Error       error
	Data        *common.BlockWithTransactions
}

type GetTransactionsResult struct {
	Hash  string
	Error error
	Data  *common.TransactionResponse
}

type GetReceiptsResult struct {
	Hash  string
	Error error
	Data  *common.TransactionReceipt
}

type BlocksPerRequestConfig struct {
	Blocks       int
	Transactions int
}

type IRPCClient interface {
	GetBlocks(ctx context.Context, blockNumbers []*big.Int) []GetBlocksResult
	GetFullBlocks(ctx context.Context, blockNumbers []*big.Int) []GetFullBlocksResult
	GetTransactions(ctx context.Context, txHashes []string) []GetTransactionsResult
	GetReceipts(ctx context.Context, txHashes []string) []GetReceiptsResult
	GetLatestBlockNumber(ctx context.Context) (*big.Int, error)
	GetShardID() uint32
	GetURL() string
	IsWebsocket() bool
	Close()
}

type Client struct {
	RPCClient        *gethRpc.Client
	formatter        *formatter.Formatter
	isWebsocket      bool
	url              string
	namespace        string
	blocksPerRequest BlocksPerRequestConfig
}

func Initialize() (IRPCClient, error) {
	rpcUrl := config.Cfg.RPC.URL
	if rpcUrl == "" {
		return nil, fmt.Errorf("RPC_URL environment variable is not set")
	}
	log.Debug().Msg("Initializing RPC")
	rpcClient, dialErr := gethRpc.Dial(rpcUrl)
	if dialErr != nil {
		return nil, dialErr
	}

	rpc := NewClient(rpcClient, config.Cfg.Formatter.ShardID)
	rpc.url = rpcUrl
	rpc.isWebsocket = strings.HasPrefix(rpcUrl, "ws://") || strings.HasPrefix(rpcUrl, "wss://")

	if err := rpc.checkGetBlockByNumberSupport(context.Background()); err != nil {
		rpc.Close()
		return nil, err
	}
	return IRPCClient(rpc), nil
}

// NewClient wraps an already connected client, formatting records for shardID.
func NewClient(rpcClient *gethRpc.Client, shardID uint32) *Client {
	return &Client{
		RPCClient:        rpcClient,
		formatter:        formatter.New(shardID),
		namespace:        getNamespace(),
		blocksPerRequest: GetBlocksPerRequestConfig(),
	}
}

func (rpc *Client) method(name string) string {
	return rpc.namespace + "_" + name
}

func (rpc *Client) GetShardID() uint32 {
	return rpc.formatter.ShardID()
}

func (rpc *Client) GetURL() string {
	return rpc.url
}

func (rpc *Client) IsWebsocket() bool {
	return rpc.isWebsocket
}

func (rpc *Client) Close() {
	rpc.RPCClient.Close()
}

func (rpc *Client) checkGetBlockByNumberSupport(ctx context.Context) error {
	var blockByNumberResult interface{}
	method := rpc.method("getBlockByNumber")
	err := rpc.RPCClient.CallContext(ctx, &blockByNumberResult, method, "latest", false)
	if err != nil {
		return fmt.Errorf("%s method not supported: %v", method, err)
	}
	log.Debug().Msgf("%s method supported", method)
	return nil
}

func (rpc *Client) GetBlocks(ctx context.Context, blockNumbers []*big.Int) []GetBlocksResult {
	blocks := RPCFetchInBatches[*big.Int, common.RawBlock](rpc, ctx, blockNumbers, rpc.blocksPerRequest.Blocks, config.Cfg.RPC.Blocks.BatchDelay, rpc.method("getBlockByNumber"), GetBlockWithoutTransactionsParams)
	return SerializeBlocks(rpc.formatter, blocks)
}

func (rpc *Client) GetFullBlocks(ctx context.Context, blockNumbers []*big.Int) []GetFullBlocksResult {
	blocks := RPCFetchInBatches[*big.Int, common.RawBlock](rpc, ctx, blockNumbers, rpc.blocksPerRequest.Blocks, config.Cfg.RPC.Blocks.BatchDelay, rpc.method("getBlockByNumber"), GetBlockWithTransactionsParams)
	return SerializeFullBlocks(rpc.formatter, blocks)
}

func (rpc *Client) GetTransactions(ctx context.Context, txHashes []string) []GetTransactionsResult {
	transactions := RPCFetchInBatches[string, common.RawTransaction](rpc, ctx, txHashes, rpc.blocksPerRequest.Transactions, config.Cfg.RPC.Transactions.BatchDelay, rpc.method("getTransactionByHash"), GetTransactionParams)
	return SerializeTransactions(rpc.formatter, transactions)
}

func (rpc *Client) GetReceipts(ctx context.Context, txHashes []string) []GetReceiptsResult {
	receipts := RPCFetchInBatches[string, common.RawReceipt](rpc, ctx, txHashes, rpc.blocksPerRequest.Transactions, config.Cfg.RPC.Transactions.BatchDelay, rpc.method("getTransactionReceipt"), GetReceiptParams)
	return SerializeReceipts(rpc.formatter, receipts)
}

func (rpc *Client) GetLatestBlockNumber(ctx context.Context) (*big.Int, error) {
	var blockNumber hexutil.Big
	if err := rpc.RPCClient.CallContext(ctx, &blockNumber, rpc.method("blockNumber")); err != nil {
		return nil, errors.Wrap(err, "failed to get latest block number")
	}
	return blockNumber.ToInt(), nil
}
