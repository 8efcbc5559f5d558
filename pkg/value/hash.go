package value

import (
	"encoding/binary"
	"math"
	"math/big"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FNV-1a 64-bit constants (spec.md §4.A).
const (
	offsetBasis64 uint64 = 0xcbf29ce484222325
	prime64       uint64 = 0x00000100000001B3
	nullMarker           = 0xFF
)

// Hasher produces stable per-value digests (spec.md §4.A). It supports a
// rolling mode seeded by an explicit offset basis, so callers building a
// composite hash over several values (e.g. all properties of an Aspect)
// can thread one Hasher through each Hash call instead of combining
// independent digests after the fact.
type Hasher struct {
	state uint64
}

// NewHasher returns a Hasher seeded with the standard FNV-1a offset basis.
func NewHasher() *Hasher {
	return &Hasher{state: offsetBasis64}
}

// NewHasherSeeded returns a Hasher seeded with an explicit 64-bit offset
// basis, for rolling/composite hashing.
func NewHasherSeeded(seed uint64) *Hasher {
	return &Hasher{state: seed}
}

// Sum returns the current digest without resetting the hasher.
func (h *Hasher) Sum() uint64 { return h.state }

func (h *Hasher) writeByte(b byte) {
	h.state ^= uint64(b)
	h.state *= prime64
}

func (h *Hasher) writeBytes(bs []byte) {
	for _, b := range bs {
		h.writeByte(b)
	}
}

// HashValue folds v (the abstract value for PropertyType pt) into the
// hasher's running state and returns the updated digest. A nil value
// writes the 0xFF null marker, per spec.md §4.A.
func (h *Hasher) HashValue(v any, pt PropertyType) uint64 {
	if v == nil {
		h.writeByte(nullMarker)
		return h.state
	}
	switch pt {
	case Integer:
		n := v.(int64)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		h.writeBytes(buf[:])
	case Float:
		f := v.(float64)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.writeBytes(buf[:])
	case Boolean:
		if v.(bool) {
			h.writeByte(1)
		} else {
			h.writeByte(0)
		}
	case String, Text, CLOB:
		h.writeBytes([]byte(v.(string)))
	case BigInteger:
		h.writeBytes([]byte(v.(*big.Int).String()))
	case BigDecimal:
		h.writeBytes([]byte(v.(decimal.Decimal).String()))
	case DateTime:
		h.writeBytes([]byte(v.(time.Time).Format(time.RFC3339Nano)))
	case URI:
		h.writeBytes([]byte(v.(*url.URL).String()))
	case UUID:
		id := v.(uuid.UUID)
		h.writeBytes(id[:8])
		h.writeBytes(id[8:])
	case BLOB:
		h.writeBytes(v.([]byte))
	default:
		h.writeByte(nullMarker)
	}
	return h.state
}

// Hash is the one-shot convenience form: hash a single value of kind pt
// with a fresh offset basis.
func Hash(v any, pt PropertyType) uint64 {
	h := NewHasher()
	return h.HashValue(v, pt)
}
