package compress

import (
	"errors"
	"fmt"
)

const (
	NameNop    = "nop"
	NameGZip   = "gzip"
	NameBrotli = "brotli"
	NameLZ4    = "lz4"
)

var ErrUnknownCodec = errors.New("unknown compression codec")

// Compress encodes and decodes snapshot payloads.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	// Name is stored next to the encoded payload so it can be decoded later.
	Name() string
}

// ForName returns the codec registered under name. An empty name is treated as nop,
// which is what rows written without compression carry.
func ForName(name string) (Compress, error) {
	switch name {
	case "", NameNop:
		return NewNop(), nil
	case NameGZip:
		return NewGZip(), nil
	case NameBrotli:
		return NewBrotli(), nil
	case NameLZ4:
		return NewLZ4(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
