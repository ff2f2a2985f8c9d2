package wspr

import (
	"strings"

	"github.com/cwsl/wsprft8/internal/decodeerr"
	"github.com/cwsl/wsprft8/internal/ft8"
)

// PackCallsign encodes a standard 4-6 character callsign into its 28-bit
// numeric value. WSPR's n1 field uses exactly the "standard 6-char pattern"
// branch of FT8's c28 (Fano.cc's unpackcall runs the same 37/36/10/27/27/27
// modulus chain as message.go's unpackcall for FT8's standard range); WSPR
// has no CQ/QRZ/DE tokens or hash-fallback range, so this reuses ft8.Nchar
// directly rather than going through ft8.PackCallsign28's token dispatch.
func PackCallsign(call string) (uint32, error) {
	call = strings.ToUpper(strings.TrimSpace(call))
	if len(call) == 0 || len(call) > 6 {
		return 0, decodeerr.New("wspr.PackCallsign", decodeerr.OutOfRange)
	}
	// A call whose digit sits at position 1 (W1AW) gets one leading space so
	// the digit lands in the numeric slot at position 2.
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	if len(call) >= 2 && len(call) < 6 && isDigit(call[1]) && (len(call) < 3 || !isDigit(call[2])) {
		call = " " + call
	}
	padded := call + strings.Repeat(" ", 6-len(call))

	idx := [6]int{
		ft8.Nchar(padded[0], ft8.CharTableAlphanumSpace),
		ft8.Nchar(padded[1], ft8.CharTableAlphanum),
		ft8.Nchar(padded[2], ft8.CharTableNumeric),
		ft8.Nchar(padded[3], ft8.CharTableLettersSpace),
		ft8.Nchar(padded[4], ft8.CharTableLettersSpace),
		ft8.Nchar(padded[5], ft8.CharTableLettersSpace),
	}
	for _, v := range idx {
		if v < 0 {
			return 0, decodeerr.New("wspr.PackCallsign", decodeerr.BadChar)
		}
	}
	n := uint32(idx[0])
	n = n*36 + uint32(idx[1])
	n = n*10 + uint32(idx[2])
	n = n*27 + uint32(idx[3])
	n = n*27 + uint32(idx[4])
	n = n*27 + uint32(idx[5])
	return n, nil
}

// UnpackCallsign decodes a 28-bit n1 value into a 6-character (trimmed)
// callsign, the inverse of PackCallsign.
func UnpackCallsign(n uint32) string {
	callsign := make([]byte, 6)
	callsign[5] = ft8.Charn(int(n%27), ft8.CharTableLettersSpace)
	n /= 27
	callsign[4] = ft8.Charn(int(n%27), ft8.CharTableLettersSpace)
	n /= 27
	callsign[3] = ft8.Charn(int(n%27), ft8.CharTableLettersSpace)
	n /= 27
	callsign[2] = ft8.Charn(int(n%10), ft8.CharTableNumeric)
	n /= 10
	callsign[1] = ft8.Charn(int(n%36), ft8.CharTableAlphanum)
	n /= 36
	callsign[0] = ft8.Charn(int(n%37), ft8.CharTableAlphanumSpace)
	return ft8.Trim(string(callsign))
}
