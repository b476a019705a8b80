package audit

import "encoding/json"

// MarshalWithCompliance serializes v and injects the derived is_compliant
// flag. Results never carry the flag as a settable field; it is always
// computed from the other fields at render time.
func MarshalWithCompliance(v any, compliant bool) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	flag, err := json.Marshal(compliant)
	if err != nil {
		return nil, err
	}
	fields["is_compliant"] = flag
	return json.Marshal(fields)
}
