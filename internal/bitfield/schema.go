package bitfield

import "github.com/cwsl/wsprft8/internal/decodeerr"

// MessageType indexes the fixed FT8 message-type schema table. Numbering
// matches the i3 field: 0=free-text, 1/2=std, 3=contest, 4=hash-call,
// 5=std-alt.
type MessageType int

const (
	MessageFreeText MessageType = 0
	MessageStandard MessageType = 1
	MessageStdAlt   MessageType = 2
	MessageContest  MessageType = 3
	MessageHashCall MessageType = 4
	MessageWWDigi   MessageType = 5
)

// SchemaEntry names one ordered field of a message-type schema: its tag and
// bit width.
type SchemaEntry struct {
	Tag  string
	Bits int
}

// schemas is the fixed table of field layouts per MessageType, replacing the
// source's per-type hand-written packing code with plain data. Widths sum to
// 77 bits (the FT8 payload) for every entry, per spec.
var schemas = map[MessageType][]SchemaEntry{
	MessageStandard: {
		{Tag: "c28", Bits: 28},
		{Tag: "r1", Bits: 1},
		{Tag: "c28", Bits: 28},
		{Tag: "r1", Bits: 1},
		{Tag: "R1", Bits: 1},
		{Tag: "g15", Bits: 15},
		{Tag: "i3", Bits: 3},
	},
	MessageStdAlt: {
		{Tag: "c28", Bits: 28},
		{Tag: "r1", Bits: 1},
		{Tag: "c28", Bits: 28},
		{Tag: "r1", Bits: 1},
		{Tag: "R1", Bits: 1},
		{Tag: "g15", Bits: 15},
		{Tag: "i3", Bits: 3},
	},
	MessageHashCall: {
		{Tag: "h12", Bits: 12},
		{Tag: "c58", Bits: 58},
		{Tag: "h1", Bits: 1},
		{Tag: "r2", Bits: 2},
		{Tag: "c1", Bits: 1},
		{Tag: "i3", Bits: 3},
	},
	MessageContest: {
		{Tag: "c28", Bits: 28},
		{Tag: "c28", Bits: 28},
		{Tag: "g15", Bits: 15},
		{Tag: "i3", Bits: 3},
		{Tag: "n3", Bits: 3},
	},
}

// Schema returns the field layout for a message type, or nil if this repo
// does not carry a packing schema for it (spec.md: "Out-of-range lookups
// return empty").
func Schema(t MessageType) []SchemaEntry {
	return schemas[t]
}

// Overlay addresses a named field within a composite Field by message-type
// schema, returning its bit vector. It locates the instance-th occurrence of
// name within the ordered schema for t, computes its bit offset from the
// preceding entries, and slices it out of f. Out-of-range lookups (unknown
// type, unknown tag, or insufficient instances) return an empty bit vector
// rather than failing, matching spec.md's overlay semantics.
func Overlay(f *Field, t MessageType, name string, instance int) []bool {
	entries, ok := schemas[t]
	if !ok {
		return nil
	}
	offset := 0
	seen := 0
	for _, e := range entries {
		if e.Tag == name {
			seen++
			if seen == instance {
				if offset+e.Bits > f.Bits() {
					return nil
				}
				sub, err := f.Slice(offset, e.Bits)
				if err != nil {
					return nil
				}
				return sub.Bool()
			}
		}
		offset += e.Bits
	}
	return nil
}

// BuildSchema concatenates a sequence of already-tagged Fields according to
// a message-type schema, validating that each field's width matches the
// schema entry at its position (field tags are not compared). Returns ShortInput if the fields list is
// shorter than the schema, OutOfRange if a width mismatches.
func BuildSchema(t MessageType, fields []*Field) (*Field, error) {
	entries, ok := schemas[t]
	if !ok {
		return nil, decodeerr.New("bitfield.BuildSchema", decodeerr.OutOfRange)
	}
	if len(fields) < len(entries) {
		return nil, decodeerr.New("bitfield.BuildSchema", decodeerr.ShortInput)
	}
	out := fields[0]
	if out.Bits() != entries[0].Bits {
		return nil, decodeerr.New("bitfield.BuildSchema", decodeerr.OutOfRange)
	}
	for i := 1; i < len(entries); i++ {
		if fields[i].Bits() != entries[i].Bits {
			return nil, decodeerr.New("bitfield.BuildSchema", decodeerr.OutOfRange)
		}
		out = Concat(out, fields[i])
	}
	return out, nil
}
