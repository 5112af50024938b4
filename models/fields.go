package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Helpers for filling entities from the loosely-typed field maps arriving at
// the get/create boundary. Wrongly-typed values are dropped, matching the
// degrade-don't-fail policy of the rest of the store.

func stringField(fields map[string]interface{}, key string) (string, bool) {
	v, ok := fields[key].(string)
	return v, ok
}

func boolField(fields map[string]interface{}, key string) (bool, bool) {
	v, ok := fields[key].(bool)
	return v, ok
}

func mapField(fields map[string]interface{}, key string) (datatypes.JSONMap, bool) {
	v, ok := fields[key].(map[string]interface{})
	if !ok {
		return nil, false
	}
	return datatypes.JSONMap(v), true
}

// jsonField serializes any present value into a raw JSON column.
func jsonField(fields map[string]interface{}, key string) (datatypes.JSON, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return datatypes.JSON(raw), true
}

// jsonValue decodes a raw JSON column back into its structural form for the
// map projections.
func jsonValue(d datatypes.JSON) interface{} {
	if len(d) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(d, &v); err != nil {
		return nil
	}
	return v
}
