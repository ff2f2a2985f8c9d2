package wspr

import (
	"github.com/cwsl/wsprft8/internal/bitfield"
	"github.com/cwsl/wsprft8/internal/decodeerr"
)

// MessageType distinguishes WSPR's three message layouts, discriminated in
// Fano.cc's unpk by "ntype = (n2&127)-64": standard (nu in {0,3,7}),
// compound call via prefix/suffix (any other nu, 0 <= ntype <= 62), and
// hashed callsign (ntype < 0).
type MessageType int

const (
	MessageStandard MessageType = iota
	MessageCompound
	MessageHashed
)

// Message is a decoded (or to-be-encoded) WSPR 50-bit payload.
type Message struct {
	Type     MessageType
	Callsign string
	Grid     string
	DBm      int
}

func bitsOf(v uint64, width int) []bool {
	out := make([]bool, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = v&1 == 1
		v >>= 1
	}
	return out
}

func uintOf(bits []bool) uint64 {
	var v uint64
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// Pack builds the 81-bit convolutional-encoder input (50-bit message + 22
// reserved zero bits + 9 tail bits) for a standard type-1 message: a
// callsign of up to six characters, a 4-character Maidenhead grid square,
// and a dBm power level drawn from ValidPowers. Compound-call (type 2) and
// hashed-callsign (type 3) messages are decode-only here, mirroring
// original_source's own wsprd (a receive-only decoder with no WSPR
// transmit-encode path) and internal/ft8's precedent of best-effort decode
// for types it does not pack.
func Pack(callsign, grid string, dbm int) ([]uint8, error) {
	n1, err := PackCallsign(callsign)
	if err != nil {
		return nil, decodeerr.Wrap("wspr.Pack", decodeerr.BadChar, err)
	}
	g, err := PackGrid(grid)
	if err != nil {
		return nil, decodeerr.Wrap("wspr.Pack", decodeerr.BadChar, err)
	}
	p, err := PackPower(dbm)
	if err != nil {
		return nil, decodeerr.Wrap("wspr.Pack", decodeerr.BadChar, err)
	}

	f1, _ := bitfield.NewFromBits(28, bitsOf(uint64(n1), 28))
	fg, _ := bitfield.NewFromBits(15, bitsOf(uint64(g), 15))
	fp, _ := bitfield.NewFromBits(7, bitsOf(uint64(p), 7))
	reserved, _ := bitfield.NewFromBits(22, make([]bool, 22))
	tail, _ := bitfield.NewFromBits(9, make([]bool, 9))

	whole := bitfield.Concat(f1, fg)
	whole = bitfield.Concat(whole, fp)
	whole = bitfield.Concat(whole, reserved)
	whole = bitfield.Concat(whole, tail)

	if whole.Bits() != DataBits {
		return nil, decodeerr.New("wspr.Pack", decodeerr.OutOfRange)
	}
	out := make([]uint8, DataBits)
	for i, b := range whole.Bool() {
		if b {
			out[i] = 1
		}
	}
	return out, nil
}

// Unpack decodes the 72-bit message payload (the 81-bit decoder output with
// its 9 tail bits dropped) into a Message, consulting ht for type-3
// hash-fallback resolution. Adapted from Fano.cc's unpk dispatcher.
func Unpack(payload []uint8, ht *HashTable) (*Message, error) {
	if len(payload) < PayloadBits {
		return nil, decodeerr.New("wspr.Unpack", decodeerr.ShortInput)
	}
	n1 := uint32(uintOf(boolsFromBits(payload[0:28])))
	n2 := uint32(uintOf(boolsFromBits(payload[28:50])))

	ntype := int(n2&127) - 64

	switch {
	case ntype >= 0 && (ntype%10 == 0 || ntype%10 == 3 || ntype%10 == 7):
		callsign := UnpackCallsign(n1)
		grid := UnpackGrid(uint16(n2 >> 7))
		if ht != nil {
			ht.Store(callsign)
		}
		return &Message{Type: MessageStandard, Callsign: callsign, Grid: grid, DBm: ntype}, nil

	case ntype >= 0:
		nu := ntype % 10
		nadd := nu
		if nu > 7 {
			nadd = nu - 7
		} else if nu > 3 {
			nadd = nu - 3
		}
		base := UnpackCallsign(n1)
		n3 := int(n2>>7) + 32768*(nadd-1)
		callsign := unpackPrefix(n3, base)
		dbm := ntype - nadd
		if ht != nil {
			ht.Store(callsign)
		}
		return &Message{Type: MessageCompound, Callsign: callsign, DBm: dbm}, nil

	default:
		dbm := -(ntype + 1)
		id := uint32(n2 >> 7)
		callsign := "<...>"
		if ht != nil {
			if resolved, found := ht.Lookup(id); found {
				callsign = resolved
			} else {
				return nil, decodeerr.New("wspr.Unpack", decodeerr.HashMiss)
			}
		}
		// The 6-character buffer n1 decodes through the same callsign
		// alphabet as type 1/2, but here it packs a compressed extended
		// grid rather than a callsign; the retrieved reference material
		// did not give a verifiable character-to-digit mapping for that
		// compression (see DESIGN.md), so the grid is left unresolved
		// for this message type rather than guessed at.
		_ = UnpackCallsign(n1)
		return &Message{Type: MessageHashed, Callsign: callsign, Grid: "", DBm: dbm}, nil
	}
}

func boolsFromBits(bits []uint8) []bool {
	out := make([]bool, len(bits))
	for i, b := range bits {
		out[i] = b != 0
	}
	return out
}
