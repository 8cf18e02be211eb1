package decoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/mcncl/debson/internal/errors"
	"github.com/mcncl/debson/internal/models"
)

func mustMarshal(t *testing.T, doc bson.D) []byte {
	t.Helper()
	data, err := bson.Marshal(doc)
	require.NoError(t, err)
	return data
}

func decodeOne(t *testing.T, doc bson.D) models.Document {
	t.Helper()
	v, err := Decode(mustMarshal(t, doc))
	require.NoError(t, err)
	d, ok := v.(models.Document)
	require.True(t, ok, "Decode() root is not a models.Document, got %T", v)
	return d
}

func TestDecode_ScalarVariants(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2023, 5, 20, 14, 56, 23, 0, time.UTC)
	dec, err := primitive.ParseDecimal128("123.456")
	require.NoError(t, err)

	doc := decodeOne(t, bson.D{
		{Key: "null", Value: nil},
		{Key: "bool", Value: true},
		{Key: "int32", Value: int32(42)},
		{Key: "int64", Value: int64(9007199254740993)},
		{Key: "double", Value: 3.14},
		{Key: "string", Value: "hello"},
		{Key: "binary", Value: primitive.Binary{Subtype: 0x04, Data: []byte{0xDE, 0xAD}}},
		{Key: "date", Value: when},
		{Key: "ts", Value: primitive.Timestamp{T: 1684594583, I: 7}},
		{Key: "oid", Value: oid},
		{Key: "regex", Value: primitive.Regex{Pattern: "^a.*z$", Options: "i"}},
		{Key: "decimal", Value: dec},
	})

	expected := models.Document{
		{Key: "null", Value: models.Null{}},
		{Key: "bool", Value: models.Bool(true)},
		{Key: "int32", Value: models.Int32(42)},
		{Key: "int64", Value: models.Int64(9007199254740993)},
		{Key: "double", Value: models.Float64(3.14)},
		{Key: "string", Value: models.String("hello")},
		{Key: "binary", Value: models.Binary{Subtype: 0x04, Data: []byte{0xDE, 0xAD}}},
		{Key: "date", Value: models.DateTime(when.UnixMilli())},
		{Key: "ts", Value: models.Timestamp{T: 1684594583, I: 7}},
		{Key: "oid", Value: models.ObjectID(oid)},
		{Key: "regex", Value: models.Regex{Pattern: "^a.*z$", Options: "i"}},
		{Key: "decimal", Value: models.Decimal128("123.456")},
	}
	assert.Equal(t, expected, doc)
}

func TestDecode_NestedContainers(t *testing.T) {
	doc := decodeOne(t, bson.D{
		{Key: "nested", Value: bson.D{
			{Key: "inner", Value: bson.A{int32(1), "two", bson.D{{Key: "deep", Value: false}}}},
		}},
	})

	expected := models.Document{
		{Key: "nested", Value: models.Document{
			{Key: "inner", Value: models.Array{
				models.Int32(1),
				models.String("two"),
				models.Document{{Key: "deep", Value: models.Bool(false)}},
			}},
		}},
	}
	assert.Equal(t, expected, doc)
}

func TestDecode_PreservesKeyOrder(t *testing.T) {
	doc := decodeOne(t, bson.D{
		{Key: "zebra", Value: int32(1)},
		{Key: "apple", Value: int32(2)},
		{Key: "mango", Value: int32(3)},
	})

	keys := make([]string, len(doc))
	for i, f := range doc {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, keys)
}

func TestDecode_QuotedKeysSurviveDecoding(t *testing.T) {
	// The decoder does not repair keys; that is the normalizer's job.
	doc := decodeOne(t, bson.D{{Key: `"foo"`, Value: int32(1)}})

	require.Len(t, doc, 1)
	assert.Equal(t, `"foo"`, doc[0].Key)
}

func TestDecode_MinMaxKey(t *testing.T) {
	doc := decodeOne(t, bson.D{
		{Key: "lo", Value: primitive.MinKey{}},
		{Key: "hi", Value: primitive.MaxKey{}},
	})

	expected := models.Document{
		{Key: "lo", Value: models.Document{{Key: "$minKey", Value: models.Int32(1)}}},
		{Key: "hi", Value: models.Document{{Key: "$maxKey", Value: models.Int32(1)}}},
	}
	assert.Equal(t, expected, doc)
}

func TestDecode_SymbolAndJavaScriptBecomeStrings(t *testing.T) {
	doc := decodeOne(t, bson.D{
		{Key: "sym", Value: primitive.Symbol("legacy")},
		{Key: "js", Value: primitive.JavaScript("function() {}")},
	})

	expected := models.Document{
		{Key: "sym", Value: models.String("legacy")},
		{Key: "js", Value: models.String("function() {}")},
	}
	assert.Equal(t, expected, doc)
}

func TestDecode_EmptyDocument(t *testing.T) {
	doc := decodeOne(t, bson.D{})
	assert.Empty(t, doc)
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{0x0C, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00})

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.ConvertError{Type: apperrors.ErrorTypeDecode})
}

func TestDecode_RejectsTruncatedDocument(t *testing.T) {
	data := mustMarshal(t, bson.D{{Key: "a", Value: "a long enough string value"}})

	_, err := Decode(data[:len(data)-4])

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.ConvertError{Type: apperrors.ErrorTypeDecode})
}
