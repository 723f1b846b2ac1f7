package value

// Flags is a bitset of shape-preserving annotations that survive
// pervasive operations (sortedness hints, map-key-ness, and similar).
// Flags combine across two operands with xor, so applying the same
// flag twice cancels it — this is what makes the combine commutative
// and self-inverse (spec invariant 7).
type Flags uint32

const (
	FlagSortedUp Flags = 1 << iota
	FlagSortedDown
	FlagMapKeys
)

// PersistentMeta is the auxiliary, shape-preserving annotation a Value
// carries alongside its shape and data. It is deliberately opaque to
// the zip engine beyond its xor-combine rule — the engine never reads
// individual flags, only propagates the combined result.
type PersistentMeta struct {
	Label string
	Flags Flags
}

// Xor combines two metas commutatively and self-inversely on Flags.
// Label is carried from whichever side has one set (labels aren't bit
// flags, so they can't be xor'd bitwise); if both sides carry distinct
// labels the left operand wins, matching "first writer wins" semantics
// used elsewhere when combining cell-level annotations.
func (m PersistentMeta) Xor(other PersistentMeta) PersistentMeta {
	label := m.Label
	if label == "" {
		label = other.Label
	}
	return PersistentMeta{
		Label: label,
		Flags: m.Flags ^ other.Flags,
	}
}

// XorAll reduces a sequence of metas with Xor, used when eachn/rowsn
// combine more than two operands at once.
func XorAll(metas ...PersistentMeta) PersistentMeta {
	var acc PersistentMeta
	for _, m := range metas {
		acc = acc.Xor(m)
	}
	return acc
}
