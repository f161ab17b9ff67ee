package capgains

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// ErrorLine is what the command line prints for a batch that fails.
const ErrorLine = "There was an error in the input"

// DecodeTrades decodes a JSON array of trades.
// Any decoding failure wraps ErrInvalidInput.
func DecodeTrades(data []byte) ([]Trade, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expecting a JSON array of trades", ErrInvalidInput)
	}
	var trades []Trade
	if err := json.Unmarshal(trimmed, &trades); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return trades, nil
}

// DecodeTradesAt selects the trade array inside a JSON document with a
// JSONPath expression, e.g. "$.trades", then decodes it like DecodeTrades.
// An empty path selects the whole document.
func DecodeTradesAt(data []byte, path string) ([]Trade, error) {
	if path == "" || path == "$" {
		return DecodeTrades(data)
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting %q: %w", ErrInvalidInput, path, err)
	}
	selected, err := json.Marshal(jval)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting %q: %w", ErrInvalidInput, path, err)
	}
	return DecodeTrades(selected)
}

// EncodeTaxes encodes taxes as a JSON array of {"tax":N} objects.
// An empty list encodes as [].
func EncodeTaxes(taxes []Tax) ([]byte, error) {
	if taxes == nil {
		taxes = []Tax{}
	}
	data, err := json.Marshal(taxes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputEncoding, err)
	}
	return data, nil
}

// DecodeTaxes decodes a JSON array of {"tax":N} objects.
func DecodeTaxes(data []byte) ([]Tax, error) {
	var taxes []Tax
	if err := json.Unmarshal(data, &taxes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return taxes, nil
}

// Convert runs the whole pipeline on a single batch: decode the trades
// selected by path, replay them under rules, encode the taxes.
func Convert(rules Rules, data []byte, path string) ([]byte, error) {
	trades, err := DecodeTradesAt(data, path)
	if err != nil {
		return nil, err
	}
	taxes, err := Replay(rules, trades)
	if err != nil {
		return nil, err
	}
	return EncodeTaxes(taxes)
}
