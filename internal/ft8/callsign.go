package ft8

import (
	"fmt"
	"strings"

	"github.com/cwsl/wsprft8/internal/decodeerr"
)

// PackCallsign28 encodes a standard callsign (or one of the DE/QRZ/CQ/CQ-nnn/
// CQ-AAAA reserved tokens) into its 28-bit c28 numeric value, the inverse of
// Unpack28. A callsign whose digit is its second character gets one leading
// space; callsigns are then right-padded to six characters. Surrounding
// blanks are trimmed before validation.
func PackCallsign28(call string) (uint32, error) {
	call = strings.ToUpper(strings.TrimSpace(call))
	switch call {
	case "DE":
		return TokenDE, nil
	case "QRZ":
		return TokenQRZ, nil
	case "CQ":
		return TokenCQ, nil
	}
	if strings.HasPrefix(call, "CQ ") {
		rest := call[3:]
		if n, err := parseDigits(rest); err == nil && n >= 0 && n <= 999 {
			return uint32(CQNumStart + n), nil
		}
		if len(rest) <= 4 {
			padded := strings.TrimSpace(rest)
			n := uint32(0)
			for i := 0; i < 4; i++ {
				c := byte(' ')
				if i < len(padded) {
					c = padded[i]
				}
				j := Nchar(c, CharTableLettersSpace)
				if j < 0 {
					return 0, decodeerr.New("ft8.PackCallsign28", decodeerr.BadChar)
				}
				n = n*27 + uint32(j)
			}
			return uint32(CQAlphaBase) + n, nil
		}
		return 0, decodeerr.New("ft8.PackCallsign28", decodeerr.OutOfRange)
	}

	if len(call) > 6 {
		return 0, decodeerr.New("ft8.PackCallsign28", decodeerr.OutOfRange)
	}
	// A call whose digit sits at position 1 (W1AW) gets one leading space so
	// the digit lands in the numeric slot at position 2.
	if len(call) >= 2 && len(call) < 6 && isDigit(call[1]) && (len(call) < 3 || !isDigit(call[2])) {
		call = " " + call
	}
	padded := call + strings.Repeat(" ", 6-len(call))

	idx := [6]int{
		Nchar(padded[0], CharTableAlphanumSpace),
		Nchar(padded[1], CharTableAlphanum),
		Nchar(padded[2], CharTableNumeric),
		Nchar(padded[3], CharTableLettersSpace),
		Nchar(padded[4], CharTableLettersSpace),
		Nchar(padded[5], CharTableLettersSpace),
	}
	for _, v := range idx {
		if v < 0 {
			return 0, decodeerr.New("ft8.PackCallsign28", decodeerr.BadChar)
		}
	}
	n := uint32(idx[0])
	n = n*36 + uint32(idx[1])
	n = n*10 + uint32(idx[2])
	n = n*27 + uint32(idx[3])
	n = n*27 + uint32(idx[4])
	n = n*27 + uint32(idx[5])
	return uint32(StdCallBase) + n, nil
}

// HashCallsign22 computes the 22-bit hash of a (padded, trimmed) callsign
// using the magic-number multiplication hash from spec.md section 4.2.
func HashCallsign22(call string) (uint32, error) {
	n58, ok := hash58(strings.ToUpper(strings.TrimSpace(call)))
	if !ok {
		return 0, decodeerr.New("ft8.HashCallsign22", decodeerr.BadChar)
	}
	return uint32((47055833459*n58)>>(64-22)) & 0x3FFFFF, nil
}

func parseDigits(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not numeric")
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// Unpack28 decodes a 28-bit c28 value, the special prefix/suffix flag ip and
// the i3 message-type discriminator into a callsign or reserved token,
// consulting ht for hash-fallback resolution. Adapted from message.go's
// unpack28.
func Unpack28(n28 uint32, ip uint8, i3 uint8, ht *HashTable) string {
	if n28 < NumTokens {
		switch {
		case n28 <= 2:
			switch n28 {
			case TokenDE:
				return "DE"
			case TokenQRZ:
				return "QRZ"
			case TokenCQ:
				return "CQ"
			}
		case n28 <= CQNumEnd:
			return fmt.Sprintf("CQ %03d", n28-CQNumStart)
		case n28 <= CQAlphaEnd:
			n := n28 - CQAlphaBase
			aaaa := make([]byte, 4)
			for i := 3; i >= 0; i-- {
				aaaa[i] = Charn(int(n%27), CharTableLettersSpace)
				n /= 27
			}
			return "CQ " + TrimFront(string(aaaa))
		}
		return ""
	}

	n28 -= NumTokens
	if n28 < Max22 {
		if ht != nil {
			if call, found := ht.Lookup(Hash22Bits, n28); found {
				return "<" + call + ">"
			}
		}
		return fmt.Sprintf("<...%04X>", n28&0xFFFF)
	}

	n := n28 - Max22
	callsign := make([]byte, 6)
	callsign[5] = Charn(int(n%27), CharTableLettersSpace)
	n /= 27
	callsign[4] = Charn(int(n%27), CharTableLettersSpace)
	n /= 27
	callsign[3] = Charn(int(n%27), CharTableLettersSpace)
	n /= 27
	callsign[2] = Charn(int(n%10), CharTableNumeric)
	n /= 10
	callsign[1] = Charn(int(n%36), CharTableAlphanum)
	n /= 36
	callsign[0] = Charn(int(n%37), CharTableAlphanumSpace)

	result := string(callsign)
	switch {
	case strings.HasPrefix(result, "3D0") && len(result) > 3 && !isSpace(result[3]):
		result = "3DA0" + Trim(result[3:])
	case result[0] == 'Q' && len(result) > 1 && isLetter(result[1]):
		result = "3X" + Trim(result[1:])
	default:
		result = Trim(result)
	}
	if len(result) < 3 {
		return ""
	}
	if ip != 0 {
		switch i3 {
		case 1:
			result += "/R"
		case 2:
			result += "/P"
		}
	}
	if ht != nil {
		ht.Store(result)
	}
	return result
}

// PackCallsign58 encodes a non-standard ("hash-call") callsign into its
// 58-bit base-38 value; overflows for inputs of 12+ characters or characters
// outside the A5 alphabet.
func PackCallsign58(call string) (uint64, error) {
	call = strings.ToUpper(strings.TrimSpace(call))
	if len(call) >= 12 {
		return 0, decodeerr.New("ft8.PackCallsign58", decodeerr.OutOfRange)
	}
	padded := call + strings.Repeat(" ", 11-len(call))
	var n58 uint64
	for i := 0; i < 11; i++ {
		j := Nchar(padded[i], CharTableAlphanumSpaceSlash)
		if j < 0 {
			return 0, decodeerr.New("ft8.PackCallsign58", decodeerr.BadChar)
		}
		n58 = 38*n58 + uint64(j)
	}
	return n58, nil
}

// Unpack58 decodes a 58-bit non-standard callsign field, storing the result
// in ht for later hash resolution.
func Unpack58(n58 uint64, ht *HashTable) string {
	c11 := make([]byte, 11)
	for i := 10; i >= 0; i-- {
		c11[i] = Charn(int(n58%38), CharTableAlphanumSpaceSlash)
		n58 /= 38
	}
	callsign := Trim(string(c11))
	if ht != nil && len(callsign) >= 3 {
		ht.Store(callsign)
	}
	return callsign
}
