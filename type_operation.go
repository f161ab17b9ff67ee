package capgains

import (
	"encoding/json"
	"fmt"
)

// Operation is the kind of a trade.
type Operation int

const (
	// Buy adds units to the position at the trade's unit cost.
	Buy Operation = iota + 1
	// Sell removes units from the position and may realize a gain or a loss.
	Sell
)

func (o Operation) String() string {
	switch o {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseOperation parses "buy" or "sell" into an Operation.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown operation: %q", s)
	}
}

func (o Operation) MarshalJSON() ([]byte, error) {
	if o != Buy && o != Sell {
		return nil, fmt.Errorf("cannot marshal operation %d", int(o))
	}
	return json.Marshal(o.String())
}

func (o *Operation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("operation must be a string: %w", err)
	}
	v, err := ParseOperation(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}
