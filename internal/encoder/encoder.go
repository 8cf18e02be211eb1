// Package encoder serializes decoded document trees to indented JSON.
//
// It is a hand-rolled writer rather than a json.Marshal call for two
// reasons: document keys must come out in their original order (a Go map
// would shuffle them), and 64-bit integers must come out as quoted decimal
// strings so their exact magnitude survives tools that read JSON numbers
// as float64. Types with no native JSON shape (binary, datetimes,
// ObjectIds, regexes, decimal128) use Extended-JSON-style tagged objects.
package encoder

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/debson/internal/models"
)

// DefaultIndent is the indent width used when none is configured.
const DefaultIndent = 2

// Encoder writes Value trees as indented JSON text.
type Encoder struct {
	indent string
}

// New creates an Encoder with the given indent width. Widths outside 1..8
// fall back to DefaultIndent.
func New(width int) *Encoder {
	if width < 1 || width > 8 {
		width = DefaultIndent
	}
	return &Encoder{indent: strings.Repeat(" ", width)}
}

// Encode serializes a batch of decoded documents. A single document is
// encoded as the root value; two or more are wrapped in an array root, in
// order. The root shape follows the document count, not caller choice.
func (e *Encoder) Encode(docs []models.Value) string {
	var buf bytes.Buffer
	if len(docs) == 1 {
		e.writeValue(&buf, docs[0], 0)
	} else {
		e.writeValue(&buf, models.Array(docs), 0)
	}
	buf.WriteByte('\n')
	return buf.String()
}

func (e *Encoder) writeValue(buf *bytes.Buffer, v models.Value, depth int) {
	switch t := v.(type) {
	case models.Null:
		buf.WriteString("null")
	case models.Bool:
		buf.WriteString(strconv.FormatBool(bool(t)))
	case models.Int32:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case models.Int64:
		// Exact decimal string, never a numeric literal.
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatInt(int64(t), 10))
		buf.WriteByte('"')
	case models.Float64:
		e.writeFloat(buf, float64(t))
	case models.String:
		writeString(buf, string(t))
	case models.Binary:
		e.writeDocument(buf, models.Document{
			{Key: "$binary", Value: models.Document{
				{Key: "base64", Value: models.String(base64.StdEncoding.EncodeToString(t.Data))},
				{Key: "subType", Value: models.String(fmt.Sprintf("%02x", t.Subtype))},
			}},
		}, depth)
	case models.DateTime:
		e.writeDocument(buf, models.Document{
			{Key: "$date", Value: models.String(t.Time().Format("2006-01-02T15:04:05.000Z07:00"))},
		}, depth)
	case models.Timestamp:
		// Float64 carries the full uint32 range exactly and renders as a
		// plain integer literal; Int32 would wrap above 2^31.
		e.writeDocument(buf, models.Document{
			{Key: "$timestamp", Value: models.Document{
				{Key: "t", Value: models.Float64(float64(t.T))},
				{Key: "i", Value: models.Float64(float64(t.I))},
			}},
		}, depth)
	case models.ObjectID:
		e.writeDocument(buf, models.Document{
			{Key: "$oid", Value: models.String(t.Hex())},
		}, depth)
	case models.Regex:
		e.writeDocument(buf, models.Document{
			{Key: "$regularExpression", Value: models.Document{
				{Key: "pattern", Value: models.String(t.Pattern)},
				{Key: "options", Value: models.String(t.Options)},
			}},
		}, depth)
	case models.Decimal128:
		e.writeDocument(buf, models.Document{
			{Key: "$numberDecimal", Value: models.String(string(t))},
		}, depth)
	case models.Array:
		e.writeArray(buf, t, depth)
	case models.Document:
		e.writeDocument(buf, t, depth)
	}
}

func (e *Encoder) writeDocument(buf *bytes.Buffer, doc models.Document, depth int) {
	if len(doc) == 0 {
		buf.WriteString("{}")
		return
	}
	buf.WriteString("{\n")
	for i, f := range doc {
		e.writeIndent(buf, depth+1)
		writeString(buf, f.Key)
		buf.WriteString(": ")
		e.writeValue(buf, f.Value, depth+1)
		if i < len(doc)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	e.writeIndent(buf, depth)
	buf.WriteByte('}')
}

func (e *Encoder) writeArray(buf *bytes.Buffer, arr models.Array, depth int) {
	if len(arr) == 0 {
		buf.WriteString("[]")
		return
	}
	buf.WriteString("[\n")
	for i, v := range arr {
		e.writeIndent(buf, depth+1)
		e.writeValue(buf, v, depth+1)
		if i < len(arr)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	e.writeIndent(buf, depth)
	buf.WriteByte(']')
}

// writeFloat emits a native JSON number for finite doubles. JSON has no
// literal for NaN or the infinities, so those become quoted strings.
func (e *Encoder) writeFloat(buf *bytes.Buffer, f float64) {
	switch {
	case math.IsNaN(f):
		buf.WriteString(`"NaN"`)
	case math.IsInf(f, 1):
		buf.WriteString(`"Infinity"`)
	case math.IsInf(f, -1):
		buf.WriteString(`"-Infinity"`)
	default:
		// encoding/json's number formatting, for consistency with what
		// consumers of the output will themselves produce.
		b, _ := json.Marshal(f)
		buf.Write(b)
	}
}

func (e *Encoder) writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(e.indent)
	}
}

// writeString emits a JSON string with standard escaping.
func writeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
