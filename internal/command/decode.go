package command

import (
	"encoding/json"
	"errors"
)

func decodeJSON(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errors.New("missing data")
	}
	return json.Unmarshal(raw, dst)
}

// decodeOptionalJSON leaves dst untouched when no data was sent.
func decodeOptionalJSON(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func decodeBool(raw json.RawMessage) (bool, error) {
	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, err
	}
	return value, nil
}
