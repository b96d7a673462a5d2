package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidEncoding indicates a blob that does not hold a valid vector.
var ErrInvalidEncoding = errors.New("invalid vector encoding")

// Encode serializes a float32 vector as a little-endian blob with a
// 4-byte length prefix.
func Encode(v []float32) ([]byte, error) {
	if v == nil {
		return nil, ErrInvalidEncoding
	}
	buf := make([]byte, 4+4*len(v))
	binary.LittleEndian.PutUint32(buf, uint32(len(v)))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4+4*i:], math.Float32bits(f))
	}
	return buf, nil
}

// Decode deserializes a blob produced by Encode.
func Decode(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, ErrInvalidEncoding
	}
	n := int(binary.LittleEndian.Uint32(data))
	if len(data) != 4+4*n {
		return nil, fmt.Errorf("%w: %d bytes for %d elements", ErrInvalidEncoding, len(data), n)
	}
	v := make([]float32, n)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+4*i:]))
	}
	return v, nil
}
