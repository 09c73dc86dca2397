package dao

import "encoding/json"

// String arrays (image urls, meetup spots, urgency tags) are stored as
// JSON text columns.

func marshalStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalStrings(s string) []string {
	v := []string{}
	if s != "" {
		_ = json.Unmarshal([]byte(s), &v)
	}
	return v
}
