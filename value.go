package rowproject

// Field is a named value of an Object.
type Field struct {
	Name  string
	Value interface{}
}

// Object is the decoded form of a parquet group or map. Fields appear in
// schema order for groups, and in file order for map entries.
//
// Decoded values are made of the following Go types:
//
//	nil                 null values
//	bool                BOOLEAN
//	int32, int64        INT32, INT64
//	float32, float64    FLOAT, DOUBLE
//	string              STRING, ENUM, UUID and INT96 columns
//	json.RawMessage     JSON columns
//	[]byte              other BYTE_ARRAY and FIXED_LEN_BYTE_ARRAY columns
//	[]interface{}       LIST columns and repeated fields
//	Object              groups and MAP columns
type Object []Field

// Get returns the value of the first field named name.
func (obj Object) Get(name string) (interface{}, bool) {
	for _, f := range obj {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names of obj in order.
func (obj Object) Names() []string {
	names := make([]string, len(obj))
	for i, f := range obj {
		names[i] = f.Name
	}
	return names
}

// MarshalJSON satisfies json.Marshaler, producing a compact JSON object with
// the fields of obj in order.
func (obj Object) MarshalJSON() ([]byte, error) {
	return compactFormat.appendValue(nil, obj)
}
