package framer

import (
	"encoding/binary"
	"fmt"

	"github.com/mcncl/debson/internal/errors"
)

// prefixSize is the width of the little-endian total-length field that
// starts every BSON document.
const prefixSize = 4

// Frame walks a buffer of concatenated BSON documents and returns one
// sub-slice per document, in order. Each document declares its own total
// length (inclusive of the 4 prefix bytes and the trailing NUL) in its
// first 4 bytes, little-endian.
//
// A declared length that is non-positive or runs past the end of the buffer
// fails the whole buffer: documents framed before the corrupt prefix are
// discarded, not returned. Fewer than 4 bytes left at the tail is not an
// error; the trailing bytes are ignored.
//
// The returned slices alias buf. Callers that mutate buf must copy first.
func Frame(buf []byte) ([][]byte, error) {
	var ranges [][]byte
	offset := 0
	for len(buf)-offset >= prefixSize {
		size := int32(binary.LittleEndian.Uint32(buf[offset:]))
		if size <= 0 {
			return nil, errors.NewFramingError(
				fmt.Sprintf("document at offset %d declares invalid size %d", offset, size),
				nil,
			)
		}
		if int(size) > len(buf)-offset {
			return nil, errors.NewFramingError(
				fmt.Sprintf("document at offset %d declares size %d but only %d bytes remain", offset, size, len(buf)-offset),
				nil,
			)
		}
		ranges = append(ranges, buf[offset:offset+int(size)])
		offset += int(size)
	}
	return ranges, nil
}
