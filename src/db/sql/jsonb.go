package db

import (
	"encoding/json"
	"fmt"

	"github.com/pradyutnair/finance-sub003/src/models"
)

// The frontend's legacy storage format wrapped conditions/actions in a
// string-encoded JSON array. These decoders accept both the proper JSONB array
// and the double-encoded form, so migrated rows keep working. The engine only
// ever sees structured slices.

func decodeConditions(raw []byte) ([]models.Condition, error) {
	raw, err := unwrapJSONString(raw)
	if err != nil {
		return nil, err
	}
	var conditions []models.Condition
	if err := json.Unmarshal(raw, &conditions); err != nil {
		return nil, fmt.Errorf("decoding rule conditions: %w", err)
	}
	return conditions, nil
}

func decodeActions(raw []byte) ([]models.Action, error) {
	raw, err := unwrapJSONString(raw)
	if err != nil {
		return nil, err
	}
	var actions []models.Action
	if err := json.Unmarshal(raw, &actions); err != nil {
		return nil, fmt.Errorf("decoding rule actions: %w", err)
	}
	return actions, nil
}

// unwrapJSONString peels one layer of string encoding if present.
func unwrapJSONString(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return []byte("[]"), nil
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, fmt.Errorf("decoding string-wrapped JSON: %w", err)
	}
	return []byte(inner), nil
}

func encodeJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding rule payload: %w", err)
	}
	return raw, nil
}
