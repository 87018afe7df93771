package ethtypes

import "github/chapool/go-ethcore/hexutil"

// The types below mirror the JSON-RPC response shapes a provider decodes
// into. They carry no invariants beyond field presence.

// Log is a single event log entry.
type Log struct {
	Address          Address        `json:"address"`
	Topics           []Hash         `json:"topics"`
	Data             hexutil.Bytes  `json:"data"`
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	TransactionHash  Hash           `json:"transactionHash"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
	BlockHash        Hash           `json:"blockHash"`
	LogIndex         hexutil.Uint64 `json:"logIndex"`
	Removed          bool           `json:"removed"`
}

// Receipt is a transaction receipt.
type Receipt struct {
	Status            hexutil.Uint64 `json:"status"`
	CumulativeGasUsed hexutil.Uint64 `json:"cumulativeGasUsed"`
	GasUsed           hexutil.Uint64 `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice"`
	Logs              []Log          `json:"logs"`
	LogsBloom         hexutil.Bytes  `json:"logsBloom"`
	TransactionHash   Hash           `json:"transactionHash"`
	TransactionIndex  hexutil.Uint64 `json:"transactionIndex"`
	ContractAddress   *Address       `json:"contractAddress"`
	BlockHash         Hash           `json:"blockHash"`
	BlockNumber       hexutil.Uint64 `json:"blockNumber"`
	Type              hexutil.Uint64 `json:"type"`
}

// Block is the header subset a wallet cares about.
type Block struct {
	Number        hexutil.Uint64 `json:"number"`
	Hash          Hash           `json:"hash"`
	ParentHash    Hash           `json:"parentHash"`
	Timestamp     hexutil.Uint64 `json:"timestamp"`
	Miner         Address        `json:"miner"`
	GasLimit      hexutil.Uint64 `json:"gasLimit"`
	GasUsed       hexutil.Uint64 `json:"gasUsed"`
	BaseFeePerGas *hexutil.Big   `json:"baseFeePerGas"`
	Transactions  []Hash         `json:"transactions"`
}
