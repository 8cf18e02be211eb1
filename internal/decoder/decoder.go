// Package decoder adapts framed BSON document ranges into the generic
// Value tree. The byte-level decoding is delegated to the MongoDB Go
// driver's bson package; this package only walks the raw elements in order
// and maps each BSON type onto a models.Value variant, converting codec
// failures into the application error taxonomy.
package decoder

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/mcncl/debson/internal/errors"
	"github.com/mcncl/debson/internal/models"
)

// Decode turns one framed document range into a models.Document.
func Decode(raw []byte) (models.Value, error) {
	doc := bson.Raw(raw)
	if err := doc.Validate(); err != nil {
		return nil, errors.NewDecodeError("document failed BSON validation", err)
	}
	return decodeDocument(doc)
}

func decodeDocument(doc bson.Raw) (models.Document, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, errors.NewDecodeError("malformed document body", err)
	}
	out := make(models.Document, 0, len(elems))
	for _, elem := range elems {
		key, err := elem.KeyErr()
		if err != nil {
			return nil, errors.NewDecodeError("malformed element key", err)
		}
		rv, err := elem.ValueErr()
		if err != nil {
			return nil, errors.NewDecodeError(fmt.Sprintf("malformed value for key %q", key), err)
		}
		v, err := decodeValue(rv)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Field{Key: key, Value: v})
	}
	return out, nil
}

func decodeArray(arr bson.Raw) (models.Array, error) {
	vals, err := arr.Values()
	if err != nil {
		return nil, errors.NewDecodeError("malformed array body", err)
	}
	out := make(models.Array, 0, len(vals))
	for _, rv := range vals {
		v, err := decodeValue(rv)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeValue maps one raw BSON value onto a Value variant. Types without
// a native JSON shape that also have no variant of their own (MinKey,
// MaxKey, DBPointer, code-with-scope) become Extended-JSON-shaped
// documents so legacy dumps never fail on them.
func decodeValue(rv bson.RawValue) (models.Value, error) {
	switch rv.Type {
	case bsontype.Double:
		f, ok := rv.DoubleOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Float64(f), nil
	case bsontype.String:
		s, ok := rv.StringValueOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.String(s), nil
	case bsontype.EmbeddedDocument:
		doc, ok := rv.DocumentOK()
		if !ok {
			return nil, malformed(rv)
		}
		return decodeDocument(doc)
	case bsontype.Array:
		arr, ok := rv.ArrayOK()
		if !ok {
			return nil, malformed(rv)
		}
		return decodeArray(arr)
	case bsontype.Binary:
		subtype, data, ok := rv.BinaryOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Binary{Subtype: subtype, Data: data}, nil
	case bsontype.ObjectID:
		oid, ok := rv.ObjectIDOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.ObjectID(oid), nil
	case bsontype.Boolean:
		b, ok := rv.BooleanOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Bool(b), nil
	case bsontype.DateTime:
		millis, ok := rv.DateTimeOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.DateTime(millis), nil
	case bsontype.Null, bsontype.Undefined:
		return models.Null{}, nil
	case bsontype.Regex:
		pattern, options, ok := rv.RegexOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Regex{Pattern: pattern, Options: options}, nil
	case bsontype.Int32:
		i, ok := rv.Int32OK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Int32(i), nil
	case bsontype.Timestamp:
		t, i, ok := rv.TimestampOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Timestamp{T: t, I: i}, nil
	case bsontype.Int64:
		i, ok := rv.Int64OK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Int64(i), nil
	case bsontype.Decimal128:
		d, ok := rv.Decimal128OK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Decimal128(d.String()), nil
	case bsontype.Symbol:
		s, ok := rv.SymbolOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.String(s), nil
	case bsontype.JavaScript:
		s, ok := rv.JavaScriptOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.String(s), nil
	case bsontype.CodeWithScope:
		code, scope, ok := rv.CodeWithScopeOK()
		if !ok {
			return nil, malformed(rv)
		}
		scopeDoc, err := decodeDocument(scope)
		if err != nil {
			return nil, err
		}
		return models.Document{
			{Key: "$code", Value: models.String(code)},
			{Key: "$scope", Value: scopeDoc},
		}, nil
	case bsontype.DBPointer:
		ns, oid, ok := rv.DBPointerOK()
		if !ok {
			return nil, malformed(rv)
		}
		return models.Document{
			{Key: "$dbPointer", Value: models.Document{
				{Key: "$ref", Value: models.String(ns)},
				{Key: "$id", Value: models.ObjectID(oid)},
			}},
		}, nil
	case bsontype.MinKey:
		return models.Document{{Key: "$minKey", Value: models.Int32(1)}}, nil
	case bsontype.MaxKey:
		return models.Document{{Key: "$maxKey", Value: models.Int32(1)}}, nil
	default:
		return nil, errors.NewDecodeError(fmt.Sprintf("unsupported BSON type %v", rv.Type), nil)
	}
}

func malformed(rv bson.RawValue) error {
	return errors.NewDecodeError(fmt.Sprintf("malformed %v value", rv.Type), nil)
}
