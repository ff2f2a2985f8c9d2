package wspr

import (
	"strings"

	"github.com/cwsl/wsprft8/internal/decodeerr"
)

// MaxGrid4 is the count of distinct 4-character Maidenhead grid squares
// (18 field letters x 18 field letters x 10 x 10).
const MaxGrid4 = 18 * 18 * 10 * 10

// PackGrid encodes a 4-character Maidenhead grid square into its 15-bit
// value. Fano.cc's unpackgrid reaches the same AA00..RR99 space through a
// dlat/dlong detour (ngrid>>7, then degrees, then re-divided into field and
// square digits); this uses the same direct positional encoding as
// internal/ft8's g15 field instead (documented in DESIGN.md) since spec.md
// does not pin an exact WSPR-internal numeric layout, only the round-tripped
// grid string.
func PackGrid(field string) (uint16, error) {
	field = strings.TrimSpace(strings.ToUpper(field))
	if len(field) != 4 {
		return 0, decodeerr.New("wspr.PackGrid", decodeerr.OutOfRange)
	}
	if field[0] < 'A' || field[0] > 'R' || field[1] < 'A' || field[1] > 'R' ||
		field[2] < '0' || field[2] > '9' || field[3] < '0' || field[3] > '9' {
		return 0, decodeerr.New("wspr.PackGrid", decodeerr.BadChar)
	}
	g := int(field[0]-'A')*18*10*10 + int(field[1]-'A')*10*10 +
		int(field[2]-'0')*10 + int(field[3]-'0')
	return uint16(g), nil
}

// UnpackGrid decodes a 15-bit grid value into its 4-character Maidenhead
// string, the inverse of PackGrid.
func UnpackGrid(g uint16) string {
	n := int(g) % MaxGrid4
	d4 := n % 10
	n /= 10
	d3 := n % 10
	n /= 10
	l2 := n % 18
	n /= 18
	l1 := n % 18
	return string([]byte{'A' + byte(l1), 'A' + byte(l2), '0' + byte(d3), '0' + byte(d4)})
}

// PackPower encodes a dBm power level into the 7-bit type-1 power/type field
// (Fano.cc's unpk: "ntype = (n2&127)-64", standard messages use ntype ==
// dbm directly with dbm%10 in {0,3,7}).
func PackPower(dbm int) (uint8, error) {
	if dbm < 0 || dbm > 60 || !isValidPower(dbm) {
		return 0, decodeerr.New("wspr.PackPower", decodeerr.OutOfRange)
	}
	return uint8(dbm + 64), nil
}

// UnpackPower decodes the 7-bit power/type field's standard-message branch
// back into a dBm value.
func UnpackPower(field uint8) int {
	return int(field) - 64
}
