package models

import (
	"encoding/hex"
	"time"
)

// Value is a single decoded BSON value. It is a closed set of variants:
// every type in this package that implements the unexported marker method
// is a Value, and nothing else is. The normalizer and encoder switch over
// the full set, so adding a variant here is a compile-visible change in
// both places.
type Value interface {
	isValue()
}

// Null is the BSON null value.
type Null struct{}

// Bool is a BSON boolean.
type Bool bool

// Int32 is a BSON 32-bit integer.
type Int32 int32

// Int64 is a BSON 64-bit integer. It encodes as a quoted decimal string,
// never as a bare numeric literal, so magnitudes above 2^53 survive
// consumers that read JSON numbers as float64.
type Int64 int64

// Float64 is a BSON double.
type Float64 float64

// String is a BSON UTF-8 string.
type String string

// Binary is a BSON binary blob with its subtype byte.
type Binary struct {
	Subtype byte
	Data    []byte
}

// DateTime is a BSON UTC datetime: milliseconds since the Unix epoch.
type DateTime int64

// Time returns the DateTime as a UTC time.Time.
func (d DateTime) Time() time.Time {
	return time.UnixMilli(int64(d)).UTC()
}

// Timestamp is a BSON internal timestamp (seconds + ordinal increment).
type Timestamp struct {
	T uint32
	I uint32
}

// ObjectID is a BSON ObjectId.
type ObjectID [12]byte

// Hex returns the ObjectID as a 24-character lowercase hex string.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

// Regex is a BSON regular expression.
type Regex struct {
	Pattern string
	Options string
}

// Decimal128 is a BSON decimal128 held in its decimal string form.
type Decimal128 string

// Array is an ordered sequence of values.
type Array []Value

// Field is one key/value pair of a Document.
type Field struct {
	Key   string
	Value Value
}

// Document is a decoded BSON document. Fields keep their on-disk order, so
// the JSON output reproduces the original key order (a plain map would not).
type Document []Field

func (Null) isValue()       {}
func (Bool) isValue()       {}
func (Int32) isValue()      {}
func (Int64) isValue()      {}
func (Float64) isValue()    {}
func (String) isValue()     {}
func (Binary) isValue()     {}
func (DateTime) isValue()   {}
func (Timestamp) isValue()  {}
func (ObjectID) isValue()   {}
func (Regex) isValue()      {}
func (Decimal128) isValue() {}
func (Array) isValue()      {}
func (Document) isValue()   {}

// Input is one named buffer handed to the converter: the raw bytes of a
// BSON dump plus the display name used in results and error messages.
type Input struct {
	Name string
	Data []byte
}

// Result is the outcome of converting one Input. Exactly one Result is
// produced per Input, in input order. On success Err is nil, Output holds
// the JSON text and Documents the number of documents found; on failure
// Err is set and the other output fields are empty. The two shapes never
// mix.
type Result struct {
	Name       string
	OutputName string
	Output     string
	Documents  int
	Err        error
}

// Failed reports whether this result is a failure.
func (r Result) Failed() bool {
	return r.Err != nil
}
