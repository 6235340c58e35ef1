package layout

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"
)

// encodeDocument marshals v as JSON, snappy-compressed when compress is set
func encodeDocument(v any, compress bool) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if compress {
		return snappy.Encode(nil, data), nil
	}
	return data, nil
}

// decodeDocument accepts plain JSON or a snappy block holding JSON, so a store
// can switch compression on or off without losing what is already persisted.
func decodeDocument(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty payload")
	}

	var jsonErr error
	if data[0] == '{' {
		if jsonErr = json.Unmarshal(data, v); jsonErr == nil {
			return nil
		}
	}

	// a snappy block starts with the varint length, which can itself be '{'
	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		if jsonErr != nil {
			return fmt.Errorf("decode payload: %w", jsonErr)
		}
		return fmt.Errorf("decompress payload: %w", err)
	}
	if err := json.Unmarshal(decoded, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
