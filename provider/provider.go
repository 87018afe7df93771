// Package provider speaks JSON-RPC to an Ethereum node. It is the only
// point of contact between this library and the outside world; everything
// downstream consumes the narrow Caller interface.
package provider

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/hexutil"
)

// Caller is the read-side transport contract: a single eth_call against the
// latest state. The contract and ENS helpers are parameterized over it.
type Caller interface {
	Call(ctx context.Context, to ethtypes.Address, calldata []byte) ([]byte, error)
}

// Provider wraps an RPC client with the eth_* methods a wallet needs.
type Provider struct {
	client  *rpc.Client
	log     zerolog.Logger
	metrics *clientMetrics
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger attaches a structured logger; requests are logged at debug
// level.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// Dial connects to an HTTP, WebSocket, or IPC endpoint.
func Dial(ctx context.Context, url string, opts ...Option) (*Provider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", url)
	}
	return NewProvider(client, opts...), nil
}

// NewProvider wraps an existing RPC client.
func NewProvider(client *rpc.Client, opts ...Option) *Provider {
	p := &Provider{
		client: client,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Close tears down the underlying client.
func (p *Provider) Close() {
	p.client.Close()
}

func (p *Provider) call(ctx context.Context, result any, method string, args ...any) error {
	start := time.Now()
	err := p.client.CallContext(ctx, result, method, args...)
	elapsed := time.Since(start)
	p.metrics.observe(method, elapsed, err)
	p.log.Debug().Str("method", method).Dur("elapsed", elapsed).Err(err).Msg("rpc call")
	if err != nil {
		return errors.Wrap(err, method)
	}
	return nil
}

// ChainID fetches the chain id.
func (p *Provider) ChainID(ctx context.Context) (uint64, error) {
	var out hexutil.Uint64
	if err := p.call(ctx, &out, "eth_chainId"); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// BlockNumber fetches the head block number.
func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	var out hexutil.Uint64
	if err := p.call(ctx, &out, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// GetBalance fetches the wei balance of an account at the given tag.
func (p *Provider) GetBalance(ctx context.Context, addr ethtypes.Address, tag ethtypes.BlockTag) (*hexutil.Big, error) {
	if !tag.Valid() {
		return nil, errors.Errorf("unknown block tag %q", tag)
	}
	out := new(hexutil.Big)
	if err := p.call(ctx, out, "eth_getBalance", addr, tag); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTransactionCount fetches the account nonce at the given tag.
func (p *Provider) GetTransactionCount(ctx context.Context, addr ethtypes.Address, tag ethtypes.BlockTag) (uint64, error) {
	if !tag.Valid() {
		return 0, errors.Errorf("unknown block tag %q", tag)
	}
	var out hexutil.Uint64
	if err := p.call(ctx, &out, "eth_getTransactionCount", addr, tag); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// GasPrice fetches the node's gas price suggestion.
func (p *Provider) GasPrice(ctx context.Context) (*hexutil.Big, error) {
	out := new(hexutil.Big)
	if err := p.call(ctx, out, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return out, nil
}

// MaxPriorityFeePerGas fetches the node's tip suggestion.
func (p *Provider) MaxPriorityFeePerGas(ctx context.Context) (*hexutil.Big, error) {
	out := new(hexutil.Big)
	if err := p.call(ctx, out, "eth_maxPriorityFeePerGas"); err != nil {
		return nil, err
	}
	return out, nil
}

// callParams is the eth_call/eth_estimateGas argument object.
type callParams struct {
	From *ethtypes.Address `json:"from,omitempty"`
	To   ethtypes.Address  `json:"to"`
	Data hexutil.Bytes     `json:"data,omitempty"`
}

// Call executes a read-only contract call against the latest state.
func (p *Provider) Call(ctx context.Context, to ethtypes.Address, calldata []byte) ([]byte, error) {
	var out hexutil.Bytes
	params := callParams{To: to, Data: calldata}
	if err := p.call(ctx, &out, "eth_call", params, ethtypes.Latest); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateGas asks the node for a gas estimate of the call.
func (p *Provider) EstimateGas(ctx context.Context, from *ethtypes.Address, to ethtypes.Address, calldata []byte) (uint64, error) {
	var out hexutil.Uint64
	params := callParams{From: from, To: to, Data: calldata}
	if err := p.call(ctx, &out, "eth_estimateGas", params); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// SendRawTransaction submits a signed transaction and returns its hash.
func (p *Provider) SendRawTransaction(ctx context.Context, signedTx []byte) (ethtypes.Hash, error) {
	var out ethtypes.Hash
	if err := p.call(ctx, &out, "eth_sendRawTransaction", hexutil.Bytes(signedTx)); err != nil {
		return ethtypes.Hash{}, err
	}
	return out, nil
}

// TransactionReceipt fetches a receipt, or nil while the transaction is
// pending.
func (p *Provider) TransactionReceipt(ctx context.Context, txHash ethtypes.Hash) (*ethtypes.Receipt, error) {
	var out *ethtypes.Receipt
	if err := p.call(ctx, &out, "eth_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	return out, nil
}

// BlockByNumber fetches a block header (transaction hashes only).
func (p *Provider) BlockByNumber(ctx context.Context, tag ethtypes.BlockTag) (*ethtypes.Block, error) {
	if !tag.Valid() {
		return nil, errors.Errorf("unknown block tag %q", tag)
	}
	var out *ethtypes.Block
	if err := p.call(ctx, &out, "eth_getBlockByNumber", tag, false); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Caller = (*Provider)(nil)
