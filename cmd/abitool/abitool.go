// Package abitool implements selector derivation and calldata encoding
// subcommands.
package abitool

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github/chapool/go-ethcore/abi"
	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/u256"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abi",
		Short: "ABI selectors and calldata",
	}
	cmd.AddCommand(newSelector(), newEncode())
	return cmd
}

func newSelector() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <signature>",
		Short: "Prints the 4-byte selector of a canonical signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name, types, err := abi.ParseSignature(args[0])
			if err != nil {
				return err
			}
			id := abi.MethodID(name, types)
			fmt.Println(hexutil.Encode(id[:]))
			return nil
		},
	}
}

func newEncode() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <signature> [arg...]",
		Short: "Encodes calldata for a signature and arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name, types, err := abi.ParseSignature(args[0])
			if err != nil {
				return err
			}
			if len(args)-1 != len(types) {
				return errors.Errorf("%s takes %d arguments, got %d", args[0], len(types), len(args)-1)
			}
			values := make([]abi.Value, len(types))
			for i, t := range types {
				v, err := parseArg(t, args[i+1])
				if err != nil {
					return errors.Wrapf(err, "argument %d", i+1)
				}
				values[i] = v
			}
			method := abi.Method{Name: name, Inputs: types}
			calldata, err := method.Pack(values...)
			if err != nil {
				return err
			}
			fmt.Println(hexutil.Encode(calldata))
			return nil
		},
	}
}

// parseArg covers the flat argument kinds a shell invocation can express.
func parseArg(t abi.Type, raw string) (abi.Value, error) {
	switch t.Kind {
	case abi.KindUint, abi.KindInt:
		var x, err = u256.ParseDecimal(raw)
		if err != nil {
			x, err = hexutil.DecodeBig(raw)
		}
		if err != nil {
			return nil, err
		}
		if t.Kind == abi.KindUint {
			return abi.Uint{Bits: t.Bits, X: x}, nil
		}
		return abi.Int{Bits: t.Bits, X: x}, nil
	case abi.KindBool:
		switch raw {
		case "true":
			return abi.Bool(true), nil
		case "false":
			return abi.Bool(false), nil
		}
		return nil, errors.Errorf("bad bool %q", raw)
	case abi.KindAddress:
		addr, err := ethtypes.ParseChecksumAddress(raw)
		if err != nil {
			return nil, err
		}
		return abi.Address(addr), nil
	case abi.KindFixedBytes:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, errors.Errorf("bytes%d argument has %d bytes", t.Size, len(b))
		}
		return abi.FixedBytes(b), nil
	case abi.KindBytes:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		return abi.Bytes(b), nil
	case abi.KindString:
		return abi.String(raw), nil
	}
	return nil, errors.Errorf("type %s is not expressible as a flag", t)
}
