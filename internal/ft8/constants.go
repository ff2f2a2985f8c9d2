// Package ft8 implements the FT8 message codec (c28/c58/g15/h-fields, six
// message types), the callsign hash tables, and CRC-14, grounded on
// audio_extensions/ft8/{constants,message,hashtable,crc,text}.go from the
// ka9q_ubersdr decoder, generalised onto internal/bitfield.
package ft8

// Symbol structure: S D1 S D2 S — sync block (7 symbols), two 29-symbol data
// blocks (3 bits/symbol), three Costas sync groups at offsets 0, 36, 72.
const (
	NumData      = 58 // data symbols
	NumSymbols   = 79 // total channel symbols
	SyncLength   = 7  // length of each sync group
	NumSync      = 3  // number of sync groups
	SyncOffset   = 36 // offset between sync groups
	PayloadBits  = 77
	CRCBits      = 14
	LDPCParity   = 83
	CodewordBits = PayloadBits + CRCBits + LDPCParity // 174
)

// CRC-14 polynomial, MSB-first, without the implicit leading 1 bit (0x6757
// with the leading bit made explicit, per spec.md section 4.3).
const (
	CRCPolynomial = 0x2757
	CRCWidth      = 14
)

// CostasPattern is the 7-tone FT8 synchronisation pattern.
var CostasPattern = [7]uint8{3, 1, 4, 0, 6, 5, 2}

// GrayMap is the 3-bit permutation applied to each FT8 symbol triplet,
// taken from FT8Window.cc's remap (tokenToSymbol).
var GrayMap = [8]uint8{0, 1, 3, 2, 6, 4, 5, 7}

// CostasFrame returns the expanded 21-bit tone pattern for the three Costas
// groups (7 symbols each) in transmission order.
func CostasFrame() []uint8 {
	out := make([]uint8, 0, SyncLength*NumSync)
	for i := 0; i < NumSync; i++ {
		out = append(out, CostasPattern[:]...)
	}
	return out
}

// Character alphabets used by the callsign/grid field codecs.
const (
	AlphaFull               = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ+-./?" // A1 core + extras, indexed via charTable
	alphaDigits             = "0123456789"
	alphaUpperAndSpace      = " ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphaUpper              = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphaAlnumSpace         = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ" // A1, 37 symbols
	alphaAlnum              = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"  // A2, 36 symbols
	alphaAlnumSpaceSlash    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ /" // not used by Nchar/Charn, which index A5 as space 0, digits 1-10, letters 11-36, '/' 37
)

// Special c28 token values (spec.md section 4.2).
const (
	TokenDE  = 0
	TokenQRZ = 1
	TokenCQ  = 2

	CQNumStart  = 3
	CQNumEnd    = 1002
	CQAlphaBase = 1003
	CQAlphaEnd  = 532442

	NumTokens    = 2063592 // hash-fallback range start
	Max22        = 4194304 // 2^22, hash-fallback range width
	StdCallBase  = NumTokens + Max22
	MaxGrid4     = 32400
)
