package ethtx

import (
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/rlp"
)

// AccessTuple is one access-list entry: an address and the storage slots
// the transaction intends to touch.
type AccessTuple struct {
	Address     ethtypes.Address `json:"address"`
	StorageKeys []ethtypes.Hash  `json:"storageKeys"`
}

// AccessList is the EIP-2930 warm-up list. An empty list encodes as 0xc0.
type AccessList []AccessTuple

func (al AccessList) copy() AccessList {
	if al == nil {
		return nil
	}
	out := make(AccessList, len(al))
	for i, tuple := range al {
		out[i] = AccessTuple{
			Address:     tuple.Address,
			StorageKeys: append([]ethtypes.Hash(nil), tuple.StorageKeys...),
		}
	}
	return out
}

// appendRLP appends the list-of-[address, [keys...]] form.
func (al AccessList) appendRLP(buf []byte) []byte {
	var content []byte
	for _, tuple := range al {
		var keys []byte
		for _, k := range tuple.StorageKeys {
			keys = rlp.AppendString(keys, k[:])
		}
		var item []byte
		item = rlp.AppendString(item, tuple.Address[:])
		item = rlp.AppendList(item, keys)
		content = rlp.AppendList(content, item)
	}
	return rlp.AppendList(buf, content)
}

func accessListFromRLP(v rlp.Value) (AccessList, error) {
	items, err := v.List()
	if err != nil {
		return nil, err
	}
	al := make(AccessList, 0, len(items))
	for _, item := range items {
		fields, err := item.List()
		if err != nil {
			return nil, err
		}
		if len(fields) != 2 {
			return nil, errors.Wrapf(ErrInvalidTx, "access tuple has %d fields", len(fields))
		}
		addrBytes, err := fields[0].Bytes()
		if err != nil {
			return nil, err
		}
		addr, err := ethtypes.AddressFromBytes(addrBytes)
		if err != nil {
			return nil, err
		}
		keyItems, err := fields[1].List()
		if err != nil {
			return nil, err
		}
		keys := make([]ethtypes.Hash, 0, len(keyItems))
		for _, ki := range keyItems {
			kb, err := ki.Bytes()
			if err != nil {
				return nil, err
			}
			h, err := ethtypes.HashFromBytes(kb)
			if err != nil {
				return nil, err
			}
			keys = append(keys, h)
		}
		al = append(al, AccessTuple{Address: addr, StorageKeys: keys})
	}
	return al, nil
}
