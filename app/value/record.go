package value

// Record is the flat mapping of substitution values supplied per call.
type Record map[string]Value

// NewRecord converts plain Go values into a Record.
func NewRecord(in map[string]any) (Record, error) {
	rec := make(Record, len(in))
	for k, item := range in {
		v, err := FromAny(item)
		if err != nil {
			return nil, err
		}
		rec[k] = v
	}
	return rec, nil
}

// Lookup returns the value stored under name.
func (r Record) Lookup(name string) (Value, bool) {
	v, ok := r[name]
	return v, ok
}

// LookupScalar returns the value stored under name only if it can be embedded in text.
func (r Record) LookupScalar(name string) (Value, bool) {
	v, ok := r[name]
	if !ok || !v.IsScalar() {
		return Null(), false
	}
	return v, true
}

// Merge returns a new Record holding r's entries overridden by other's.
func (r Record) Merge(other Record) Record {
	merged := make(Record, len(r)+len(other))
	for k, v := range r {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
