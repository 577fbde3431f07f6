package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a hash of n which agrees with Equal within one process.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("ir: Hash of nil node")
	}
	var h maphash.Hash
	h.SetSeed(hashSeed)
	n.hashTo(&h)
	return h.Sum64()
}

func (n *Node) hashTo(h *maphash.Hash) {
	put := func(u uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], u)
		h.Write(b[:])
	}
	h.WriteByte(byte(n.Type))
	switch n.Type {
	case BoolType:
		if n.Bool {
			h.WriteByte(1)
		}
	case NumberType:
		f, ok := n.Float()
		if !ok {
			h.WriteString(n.Number)
			return
		}
		// +0 for -0, as Compare has them equal
		put(math.Float64bits(f + 0))
	case StringType, InterpType:
		h.WriteString(n.String)
	case ArrayType, ObjectType:
		put(uint64(len(n.Values)))
		for i, v := range n.Values {
			if n.Type == ObjectType {
				h.WriteString(n.Fields[i].String)
				h.WriteByte(0)
			}
			v.hashTo(h)
		}
	}
}
