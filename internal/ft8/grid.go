package ft8

import (
	"strconv"
	"strings"

	"github.com/cwsl/wsprft8/internal/decodeerr"
)

// g15 special values (spec.md section 4.2).
const (
	GridBlank = 32400
	GridRRR   = 32401
	GridRR73  = 32402
	GridR73   = 32403
	GridDBBase = 32404
)

// PackGrid15 encodes a 4-character Maidenhead grid square, a signal report
// string ("RRR", "RR73", "73", or a signed dB value), or a blank field into
// its 15-bit g15 value.
func PackGrid15(field string) (uint16, error) {
	field = strings.TrimSpace(strings.ToUpper(field))
	switch field {
	case "":
		return GridBlank, nil
	case "RRR":
		return GridRRR, nil
	case "RR73":
		return GridRR73, nil
	case "73":
		return GridR73, nil
	}
	if len(field) == 4 && isLetter(field[0]) && field[0] <= 'R' &&
		isLetter(field[1]) && field[1] <= 'R' &&
		isDigit(field[2]) && isDigit(field[3]) {
		g := int(field[0]-'A')*18*10*10 + int(field[1]-'A')*10*10 +
			int(field[2]-'0')*10 + int(field[3]-'0')
		return uint16(g), nil
	}
	if db, err := strconv.Atoi(strings.TrimPrefix(field, "+")); err == nil {
		if db < -50 || db > 49 {
			return 0, decodeerr.New("ft8.PackGrid15", decodeerr.OutOfRange)
		}
		return uint16(GridDBBase + (db + 50)), nil
	}
	return 0, decodeerr.New("ft8.PackGrid15", decodeerr.BadChar)
}

// UnpackGrid15 decodes a 15-bit g15 value back into a grid square, a report
// token, or a signed dB report string.
func UnpackGrid15(g15 uint16) string {
	switch {
	case g15 == GridBlank:
		return ""
	case g15 == GridRRR:
		return "RRR"
	case g15 == GridRR73:
		return "RR73"
	case g15 == GridR73:
		return "73"
	case g15 >= GridDBBase:
		db := int(g15) - GridDBBase - 50
		return IntToDD(db, 2, true)
	case g15 < MaxGrid4:
		n := int(g15)
		d4 := n % 10
		n /= 10
		d3 := n % 10
		n /= 10
		l2 := n % 18
		n /= 18
		l1 := n % 18
		return string([]byte{'A' + byte(l1), 'A' + byte(l2), '0' + byte(d3), '0' + byte(d4)})
	default:
		return ""
	}
}
