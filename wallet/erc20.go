package wallet

import (
	"github/chapool/go-ethcore/abi"
	"github/chapool/go-ethcore/ethtypes"
)

// The ERC-20 surface, derived once at package init. A selector or topic
// read from these values is byte-identical to the equivalent runtime
// derivation.
var (
	// TransferTopic0 is the topic of Transfer(address,address,uint256).
	TransferTopic0 = ERC20TransferEvent.Topic0()

	// ApprovalTopic0 is the topic of Approval(address,address,uint256).
	ApprovalTopic0 = ERC20ApprovalEvent.Topic0()
)

// ERC20Methods is the standard fungible-token method set.
var ERC20Methods = []abi.Method{
	{Name: "name", Outputs: []abi.Type{abi.StringType()}},
	{Name: "symbol", Outputs: []abi.Type{abi.StringType()}},
	{Name: "decimals", Outputs: []abi.Type{abi.UintType(8)}},
	{Name: "totalSupply", Outputs: []abi.Type{abi.UintType(256)}},
	{Name: "balanceOf", Inputs: []abi.Type{abi.AddressType()}, Outputs: []abi.Type{abi.UintType(256)}},
	{Name: "transfer", Inputs: []abi.Type{abi.AddressType(), abi.UintType(256)}, Outputs: []abi.Type{abi.BoolType()}},
	{Name: "approve", Inputs: []abi.Type{abi.AddressType(), abi.UintType(256)}, Outputs: []abi.Type{abi.BoolType()}},
	{Name: "allowance", Inputs: []abi.Type{abi.AddressType(), abi.AddressType()}, Outputs: []abi.Type{abi.UintType(256)}},
	{Name: "transferFrom", Inputs: []abi.Type{abi.AddressType(), abi.AddressType(), abi.UintType(256)}, Outputs: []abi.Type{abi.BoolType()}},
}

// ERC20TransferEvent is the Transfer event definition.
var ERC20TransferEvent = abi.Event{
	Name: "Transfer",
	Inputs: []abi.Argument{
		{Name: "from", Type: abi.AddressType(), Indexed: true},
		{Name: "to", Type: abi.AddressType(), Indexed: true},
		{Name: "value", Type: abi.UintType(256)},
	},
}

// ERC20ApprovalEvent is the Approval event definition.
var ERC20ApprovalEvent = abi.Event{
	Name: "Approval",
	Inputs: []abi.Argument{
		{Name: "owner", Type: abi.AddressType(), Indexed: true},
		{Name: "spender", Type: abi.AddressType(), Indexed: true},
		{Name: "value", Type: abi.UintType(256)},
	},
}

// ERC20 binds the standard method set to a token address.
func ERC20(token ethtypes.Address) *Contract {
	return NewContract(token, ERC20Methods)
}
