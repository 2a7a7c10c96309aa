package rpc

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"
	"github.com/thirdweb-dev/hmy-formatter/internal/common"
	"github.com/thirdweb-dev/hmy-formatter/internal/formatter"
	"github.com/thirdweb-dev/hmy-formatter/internal/metrics"
)

const (
	kindBlock       = "block"
	kindTransaction = "transaction"
	kindReceipt     = "receipt"
)

func recordFormat(kind string, err error) {
	if err != nil {
		metrics.FormatFailures.WithLabelValues(kind).Inc()
		return
	}
	metrics.FormattedRecords.WithLabelValues(kind).Inc()
}

func recordFetchedBlocks(blockNumbers []*big.Int) {
	var highest *big.Int
	for _, blockNumber := range blockNumbers {
		if highest == nil || blockNumber.Cmp(highest) > 0 {
			highest = blockNumber
		}
	}
	if highest != nil {
		f, _ := highest.Float64()
		metrics.LastFetchedBlock.Set(f)
	}
}

func SerializeBlocks(f *formatter.Formatter, blocks []RPCFetchBatchResult[*big.Int, common.RawBlock]) []GetBlocksResult {
	results := make([]GetBlocksResult, 0, len(blocks))
	fetched := make([]*big.Int, 0, len(blocks))

	for _, rawBlock := range blocks {
		result := GetBlocksResult{
			BlockNumber: rawBlock.Key,
		}
		if rawBlock.Error != nil {
			result.Error = rawBlock.Error
			results = append(results, result)
			continue
		}

		if rawBlock.Result == nil {
			log.Warn().Msgf("Received a nil block result for block %s.", rawBlock.Key.String())
			metrics.MissingRecords.WithLabelValues(kindBlock).Inc()
			result.Error = fmt.Errorf("received a nil block result from RPC")
			results = append(results, result)
			continue
		}

		result.Data, result.Error = f.Block(rawBlock.Result)
		recordFormat(kindBlock, result.Error)
		if result.Error != nil {
			log.Warn().Err(result.Error).Msgf("Failed to format block %s", rawBlock.Key.String())
		} else {
			fetched = append(fetched, rawBlock.Key)
		}
		results = append(results, result)
	}
	recordFetchedBlocks(fetched)

	return results
}

func SerializeFullBlocks(f *formatter.Formatter, blocks []RPCFetchBatchResult[*big.Int, common.RawBlock]) []GetFullBlocksResult {
	results := make([]GetFullBlocksResult, 0, len(blocks))
	fetched := make([]*big.Int, 0, len(blocks))

	for _, rawBlock := range blocks {
		result := GetFullBlocksResult{
			BlockNumber: rawBlock.Key,
		}
		if rawBlock.Error != nil {
			result.Error = rawBlock.Error
			results = append(results, result)
			continue
		}

		if rawBlock.Result == nil {
			log.Warn().Msgf("Received a nil block result for block %s.", rawBlock.Key.String())
			metrics.MissingRecords.WithLabelValues(kindBlock).Inc()
			result.Error = fmt.Errorf("received a nil block result from RPC")
			results = append(results, result)
			continue
		}

		result.Data, result.Error = f.BlockWithTransactions(rawBlock.Result)
		recordFormat(kindBlock, result.Error)
		if result.Error != nil {
			log.Warn().Err(result.Error).Msgf("Failed to format block %s", rawBlock.Key.String())
		} else {
			fetched = append(fetched, rawBlock.Key)
		}
		results = append(results, result)
	}
	recordFetchedBlocks(fetched)

	return results
}

func SerializeTransactions(f *formatter.Formatter, transactions []RPCFetchBatchResult[string, common.RawTransaction]) []GetTransactionsResult {
	results := make([]GetTransactionsResult, 0, len(transactions))

	for _, rawTx := range transactions {
		result := GetTransactionsResult{
			Hash: rawTx.Key,
		}
		if rawTx.Error != nil {
			result.Error = rawTx.Error
		} else if rawTx.Result == nil {
			result.Error = fmt.Errorf("transaction %s not found", rawTx.Key)
			metrics.MissingRecords.WithLabelValues(kindTransaction).Inc()
		} else {
			result.Data, result.Error = f.TransactionResponse(rawTx.Result)
			recordFormat(kindTransaction, result.Error)
			if result.Error != nil {
				log.Warn().Err(result.Error).Msgf("Failed to format transaction %s", rawTx.Key)
			}
		}
		results = append(results, result)
	}

	return results
}

func SerializeReceipts(f *formatter.Formatter, receipts []RPCFetchBatchResult[string, common.RawReceipt]) []GetReceiptsResult {
	results := make([]GetReceiptsResult, 0, len(receipts))

	for _, rawReceipt := range receipts {
		result := GetReceiptsResult{
			Hash: rawReceipt.Key,
		}
		if rawReceipt.Error != nil {
			result.Error = rawReceipt.Error
		} else if rawReceipt.Result == nil {
			result.Error = fmt.Errorf("receipt for transaction %s not found", rawReceipt.Key)
			metrics.MissingRecords.WithLabelValues(kindReceipt).Inc()
		} else {
			result.Data, result.Error = f.Receipt(rawReceipt.Result)
			recordFormat(kindReceipt, result.Error)
			if result.Error != nil {
				log.Warn().Err(result.Error).Msgf("Failed to format receipt %s", rawReceipt.Key)
			}
		}
		results = append(results, result)
	}

	return results
}
