package ft8

import (
	"github.com/cwsl/wsprft8/internal/bitfield"
	"github.com/cwsl/wsprft8/internal/decodeerr"
)

// MessageType distinguishes the six a77 payload layouts (spec.md section
// 4.2). Only Standard and HashCall are packed and unpacked with full round
// trip fidelity; the rest are decoded best-effort, matching the degree to
// which the source's FT4FT8Fields variants are exercised by the end-to-end
// test vectors.
type MessageType int

const (
	MessageFreeText MessageType = iota
	MessageStandard
	MessageStdAlt
	MessageHashCall
	MessageContest
	MessageWWDigi
)

// Message is a decoded (or to-be-encoded) FT8 77-bit payload.
type Message struct {
	Type  MessageType
	Call1 string // "to" callsign, DE/QRZ/CQ token, or hash placeholder
	Call2 string // "de" callsign or hash placeholder
	Grid  string // grid square or report token
	IP1   uint8  // prefix/suffix flag for Call1
	IP2   uint8  // prefix/suffix flag for Call2
	I3    uint8  // message-type discriminator
}

// GetMessageType classifies a decoded payload's type from its trailing i3
// field (bits 74-76 of the 77-bit payload), adapted from message.go's
// switch over i3/n3.
func GetMessageType(a77 []uint8) MessageType {
	i3 := a77[74]<<2 | a77[75]<<1 | a77[76]
	switch i3 {
	case 0:
		return MessageFreeText
	case 1:
		return MessageStandard
	case 2:
		return MessageStdAlt
	case 4:
		return MessageHashCall
	case 3:
		return MessageContest
	default:
		return MessageWWDigi
	}
}

func uintToBits(v uint64, width int) []uint8 {
	bits := make([]uint8, width)
	for i := width - 1; i >= 0; i-- {
		bits[i] = uint8(v & 1)
		v >>= 1
	}
	return bits
}

func bitsToUint(bits []uint8) uint64 {
	var v uint64
	for _, b := range bits {
		v = v<<1 | uint64(b)
	}
	return v
}

// PackStandard builds the 77-bit a77 payload for a type-1 standard message:
// c28(call1) ip1 c28(call2) ip2 r1 g15(grid) i3=1.
func PackStandard(call1, call2, grid string, ip1, ip2 uint8) ([]uint8, error) {
	n1, err := PackCallsign28(call1)
	if err != nil {
		return nil, decodeerr.Wrap("ft8.PackStandard", decodeerr.BadChar, err)
	}
	n2, err := PackCallsign28(call2)
	if err != nil {
		return nil, decodeerr.Wrap("ft8.PackStandard", decodeerr.BadChar, err)
	}
	g15, err := PackGrid15(grid)
	if err != nil {
		return nil, decodeerr.Wrap("ft8.PackStandard", decodeerr.BadChar, err)
	}

	f1, _ := bitfield.NewFromBits(28, boolsFrom(uintToBits(uint64(n1), 28)))
	fip1, _ := bitfield.NewFromBits(1, boolsFrom(uintToBits(uint64(ip1), 1)))
	f2, _ := bitfield.NewFromBits(28, boolsFrom(uintToBits(uint64(n2), 28)))
	fip2, _ := bitfield.NewFromBits(1, boolsFrom(uintToBits(uint64(ip2), 1)))
	fr1, _ := bitfield.NewFromBits(1, []bool{false})
	fg15, _ := bitfield.NewFromBits(15, boolsFrom(uintToBits(uint64(g15), 15)))
	fi3, _ := bitfield.NewFromBits(3, boolsFrom(uintToBits(1, 3)))

	whole := bitfield.Concat(f1, fip1)
	whole = bitfield.Concat(whole, f2)
	whole = bitfield.Concat(whole, fip2)
	whole = bitfield.Concat(whole, fr1)
	whole = bitfield.Concat(whole, fg15)
	whole = bitfield.Concat(whole, fi3)

	if whole.Bits() != PayloadBits {
		return nil, decodeerr.New("ft8.PackStandard", decodeerr.OutOfRange)
	}
	a77 := make([]uint8, PayloadBits)
	for i, b := range whole.Bool() {
		if b {
			a77[i] = 1
		}
	}
	return a77, nil
}

func boolsFrom(bits []uint8) []bool {
	out := make([]bool, len(bits))
	for i, b := range bits {
		out[i] = b != 0
	}
	return out
}

// UnpackStandard decodes a type-1 a77 payload into a Message, consulting ht
// for any hash-fallback callsigns.
func UnpackStandard(a77 []uint8, ht *HashTable) (*Message, error) {
	if len(a77) != PayloadBits {
		return nil, decodeerr.New("ft8.UnpackStandard", decodeerr.ShortInput)
	}
	n1 := uint32(bitsToUint(a77[0:28]))
	ip1 := a77[28]
	n2 := uint32(bitsToUint(a77[29:57]))
	ip2 := a77[57]
	g15 := uint16(bitsToUint(a77[59:74]))
	i3 := a77[74]<<2 | a77[75]<<1 | a77[76]

	call1 := Unpack28(n1, ip1, i3, ht)
	call2 := Unpack28(n2, ip2, i3, ht)
	grid := UnpackGrid15(g15)

	return &Message{
		Type:  MessageStandard,
		Call1: call1,
		Call2: call2,
		Grid:  grid,
		IP1:   ip1,
		IP2:   ip2,
		I3:    i3,
	}, nil
}

// reportCode3 is a compact 3-bit report/grid discriminator used only by the
// type-4 non-standard layout, where the 58-bit free-form callsign leaves no
// room for a full 15-bit g15 field. Not named by spec.md (type 4's field
// widths are left unspecified there); a deliberate, documented compression.
func reportCode3(field string) (uint8, bool) {
	switch field {
	case "", " ":
		return 0, true
	case "RRR":
		return 1, true
	case "RR73":
		return 2, true
	case "73":
		return 3, true
	}
	return 0, false
}

func reportFromCode3(code uint8) string {
	switch code {
	case 1:
		return "RRR"
	case 2:
		return "RR73"
	case 3:
		return "73"
	default:
		return ""
	}
}

// PackHashCall builds the 77-bit a77 payload for a type-4 non-standard
// message: c58(call2, free-form) h1(hashed call1, 12 bits) r1 report(3) i3=4.
// call1 must already be a resolvable hash (its 22-bit hash is stored in ht).
func PackHashCall(call1, call2, report string) ([]uint8, error) {
	n58, err := PackCallsign58(call2)
	if err != nil {
		return nil, decodeerr.Wrap("ft8.PackHashCall", decodeerr.BadChar, err)
	}
	h1, err := HashCallsign22(call1)
	if err != nil {
		return nil, decodeerr.Wrap("ft8.PackHashCall", decodeerr.BadChar, err)
	}
	code, ok := reportCode3(report)
	if !ok {
		return nil, decodeerr.New("ft8.PackHashCall", decodeerr.BadChar)
	}

	f58, _ := bitfield.NewFromBits(58, boolsFrom(uintToBits(n58, 58)))
	fh1, _ := bitfield.NewFromBits(12, boolsFrom(uintToBits(uint64(h1>>10), 12)))
	fr1, _ := bitfield.NewFromBits(1, []bool{false})
	frep, _ := bitfield.NewFromBits(3, boolsFrom(uintToBits(uint64(code), 3)))
	fi3, _ := bitfield.NewFromBits(3, boolsFrom(uintToBits(4, 3)))

	whole := bitfield.Concat(f58, fh1)
	whole = bitfield.Concat(whole, fr1)
	whole = bitfield.Concat(whole, frep)
	whole = bitfield.Concat(whole, fi3)

	if whole.Bits() != PayloadBits {
		return nil, decodeerr.New("ft8.PackHashCall", decodeerr.OutOfRange)
	}
	a77 := make([]uint8, PayloadBits)
	for i, b := range whole.Bool() {
		if b {
			a77[i] = 1
		}
	}
	return a77, nil
}

// UnpackHashCall decodes a type-4 a77 payload, resolving the 12-bit hash
// reference through ht.
func UnpackHashCall(a77 []uint8, ht *HashTable) (*Message, error) {
	if len(a77) != PayloadBits {
		return nil, decodeerr.New("ft8.UnpackHashCall", decodeerr.ShortInput)
	}
	n58 := bitsToUint(a77[0:58])
	h12 := uint32(bitsToUint(a77[58:70]))
	code := uint8(bitsToUint(a77[71:74]))

	call2 := Unpack58(n58, ht)
	call1 := "<...>"
	if ht != nil {
		if resolved, found := ht.Lookup(Hash12Bits, h12); found {
			call1 = "<" + resolved + ">"
		} else {
			return nil, decodeerr.New("ft8.UnpackHashCall", decodeerr.HashMiss)
		}
	}

	return &Message{
		Type:  MessageHashCall,
		Call1: call1,
		Call2: call2,
		Grid:  reportFromCode3(code),
		I3:    4,
	}, nil
}

// Unpack decodes an a77 payload of any supported type, dispatching on
// GetMessageType. Types other than Standard and HashCall return a populated
// Message with only the raw type recorded — a best-effort decode, matching
// the Overlay function's "unimplemented schema entries decode to nothing"
// convention.
func Unpack(a77 []uint8, ht *HashTable) (*Message, error) {
	switch GetMessageType(a77) {
	case MessageStandard:
		return UnpackStandard(a77, ht)
	case MessageHashCall:
		return UnpackHashCall(a77, ht)
	default:
		return &Message{Type: GetMessageType(a77)}, nil
	}
}
