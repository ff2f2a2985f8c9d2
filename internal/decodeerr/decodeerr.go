// Package decodeerr defines the recoverable decode-failure error kind shared
// by the bitfield, ft8, wspr and fec packages. It replaces the source
// pipeline's habit of calling exit(-1) on malformed input: every codec
// operation here fails with a typed, wrapped error instead of aborting the
// process, and only a top-level cmd turns a fatal error into a process exit.
package decodeerr

import "fmt"

// Kind enumerates the ways a codec-level decode can fail recoverably.
type Kind int

const (
	// OutOfRange means a numeric field value exceeded its bit width.
	OutOfRange Kind = iota
	// BadChar means a character fell outside the alphabet for its field.
	BadChar
	// ShortInput means fewer bits/bytes were supplied than the codec needs.
	ShortInput
	// HashMiss means a compressed callsign hash had no table entry.
	HashMiss
	// CRCFail means the computed CRC did not match the embedded one.
	CRCFail
	// LDPCFail means the belief-propagation decoder could not converge.
	LDPCFail
	// FanoFail means the Fano sequential decoder exhausted its cycle budget.
	FanoFail
	// CostasLow means the Costas/sync correlation score was below threshold.
	CostasLow
)

func (k Kind) String() string {
	switch k {
	case OutOfRange:
		return "out_of_range"
	case BadChar:
		return "bad_char"
	case ShortInput:
		return "short_input"
	case HashMiss:
		return "hash_miss"
	case CRCFail:
		return "crc_fail"
	case LDPCFail:
		return "ldpc_fail"
	case FanoFail:
		return "fano_fail"
	case CostasLow:
		return "costas_low"
	default:
		return "unknown"
	}
}

// Error is a recoverable decode failure at the candidate level: the caller
// drops the candidate and continues with the next peak, shift, or symbol
// offset rather than treating it as fatal.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "c28.Decode"
	Err  error  // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a *Error with no wrapped cause.
func New(op string, kind Kind) *Error {
	return &Error{Op: op, Kind: kind}
}

// Wrap builds a *Error wrapping an underlying cause.
func Wrap(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
