// Package wspr implements the WSPR 50-bit message codec: standard callsign +
// grid + power, the type-2 compound-callsign (prefix/suffix) variant, and
// the type-3 hashed-callsign + 6-character compressed-grid variant. Grounded
// on original_source/Fano.cc's unpack50/unpackcall/unpackgrid/unpackpfx/unpk
// (Phil Karn's wsprd C port, retained unmodified by the dspp author), styled
// on internal/ft8's codec-file-plus-tests shape since the teacher
// (ka9q_ubersdr) carries no Go WSPR codec of its own.
package wspr

// DataBits is the convolutional encoder's 81-bit input: 72 payload bits (the
// 50-bit message plus 22 reserved zero bits) followed by 9 tail bits.
const (
	MessageBits = 50
	PayloadBits = 72
	DataBits    = 81
)

// ValidPowers is the set of dBm values a standard (type-1) message may
// encode; power/type discrimination in unpk relies on ndbm%10 being one of
// 0, 3, or 7.
var ValidPowers = []int{0, 3, 7, 10, 13, 17, 20, 23, 27, 30, 33, 37, 40, 43, 47, 50, 53, 57, 60}

func isValidPower(dbm int) bool {
	nu := ((dbm % 10) + 10) % 10
	return nu == 0 || nu == 3 || nu == 7
}
