package rowproject

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"github.com/segmentio/parquet-go"
	"github.com/segmentio/parquet-go/deprecated"
)

// Column decodes the values of one top-level column from parquet rows.
//
// Columns are obtained from Table.Column or LookupColumn. A Column reuses
// internal buffers between calls to Decode and is not safe to use from
// multiple goroutines concurrently.
type Column struct {
	name        string
	node        *schemaNode
	columnIndex int
	columns     [][]parquet.Value
}

// LookupColumn returns the top-level column of schema named name, or an error
// wrapping ErrMissingColumn.
//
// LIST and MAP groups are recognized from the node types of schema. Schemas
// read back from files do not carry those annotations on group nodes; use
// Table.Column to decode columns of a file.
func LookupColumn(schema *parquet.Schema, name string) (*Column, error) {
	return lookupColumn(schema, nil, name)
}

func lookupColumn(schema *parquet.Schema, kinds groupKinds, name string) (*Column, error) {
	columnIndex := 0
	fields := schema.Fields()

	for _, field := range fields {
		if field.Name() == name {
			node := newSchemaNode(field, field.Name(), kinds)
			return &Column{
				name:        name,
				node:        node,
				columnIndex: columnIndex,
				columns:     make([][]parquet.Value, node.numColumns),
			}, nil
		}
		columnIndex += numLeafColumnsOf(field)
	}

	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name()
	}
	return nil, fmt.Errorf("%w: %q (available columns: %q)", ErrMissingColumn, name, names)
}

// Name returns the name of c.
func (c *Column) Name() string { return c.name }

// Node returns the schema node of c.
func (c *Column) Node() parquet.Node { return c.node.node }

// Decode returns the value of c in row. See Object for the Go types that the
// returned value may be made of.
func (c *Column) Decode(row parquet.Row) (interface{}, error) {
	columns := c.columns
	for i := range columns {
		columns[i] = columns[i][:0]
	}

	numColumns := len(columns)
	for _, value := range row {
		if i := value.Column() - c.columnIndex; i >= 0 && i < numColumns {
			columns[i] = append(columns[i], value)
		}
	}

	for i, values := range columns {
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: row has no values for leaf column %d", ErrFormat, c.columnIndex+i)
		}
	}

	return decodeNode(c.node, columns, levels{})
}

// Turns returns the first n elements of the sequence held by c in row.
//
// The function returns an error wrapping ErrNotSequence if the cell is null
// or not a list, and an error wrapping ErrShortCell if it holds fewer than n
// elements.
func (c *Column) Turns(row parquet.Row, n int) ([]interface{}, error) {
	cell, err := c.Decode(row)
	if err != nil {
		return nil, err
	}
	list, ok := cell.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotSequence, cell)
	}
	if len(list) < n {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrShortCell, n, len(list))
	}
	return list[:n:n], nil
}

// levels carries the maximum repetition and definition levels of the parent
// of the node being decoded.
type levels struct {
	repetitionLevel int
	definitionLevel int
}

// decodeNode decodes one instance of node. Each element of columns holds the
// values of one leaf column under node, restricted to that instance.
func decodeNode(node *schemaNode, columns [][]parquet.Value, lvl levels) (interface{}, error) {
	switch {
	case node.node.Repeated():
		return decodeRepeated(columns, lvl, func(columns [][]parquet.Value, lvl levels) (interface{}, error) {
			return decodeValue(node, columns, lvl)
		})
	case node.node.Optional():
		lvl.definitionLevel++
		if int(columns[0][0].DefinitionLevel()) < lvl.definitionLevel {
			return nil, nil
		}
	}
	return decodeValue(node, columns, lvl)
}

// decodeValue decodes a node ignoring its repetition type.
func decodeValue(node *schemaNode, columns [][]parquet.Value, lvl levels) (interface{}, error) {
	switch node.kind {
	case leafNode:
		return decodeLeaf(node.node.Type(), columns[0][0])
	case listNode:
		return decodeList(node, columns, lvl)
	case mapNode:
		return decodeMap(node, columns, lvl)
	default:
		return decodeGroup(node, columns, lvl)
	}
}

func decodeGroup(node *schemaNode, columns [][]parquet.Value, lvl levels) (interface{}, error) {
	object := make(Object, 0, len(node.fields))
	columnIndex := 0

	for _, field := range node.fields {
		if columnIndex+field.numColumns > len(columns) {
			return nil, fmt.Errorf("%w: field %q is out of the column range", ErrFormat, field.name)
		}
		value, err := decodeNode(field, columns[columnIndex:columnIndex+field.numColumns], lvl)
		if err != nil {
			return nil, err
		}
		object = append(object, Field{Name: field.name, Value: value})
		columnIndex += field.numColumns
	}

	return object, nil
}

// decodeList decodes LIST annotated groups. Both the standard three-level
// structure and the legacy two-level structures are supported.
func decodeList(node *schemaNode, columns [][]parquet.Value, lvl levels) (interface{}, error) {
	if len(node.fields) != 1 || !node.fields[0].node.Repeated() {
		return decodeGroup(node, columns, lvl)
	}
	repeated := node.fields[0]

	if isListElementWrapper(node.name, repeated) {
		element := repeated.fields[0]
		return decodeRepeated(columns, lvl, func(columns [][]parquet.Value, lvl levels) (interface{}, error) {
			return decodeNode(element, columns, lvl)
		})
	}

	return decodeRepeated(columns, lvl, func(columns [][]parquet.Value, lvl levels) (interface{}, error) {
		return decodeValue(repeated, columns, lvl)
	})
}

// isListElementWrapper applies the backward compatibility rules of the parquet
// format to tell whether the repeated group of a LIST is the three-level
// wrapper of the element, or the element itself.
func isListElementWrapper(listName string, repeated *schemaNode) bool {
	if repeated.kind == leafNode || len(repeated.fields) != 1 {
		return false
	}
	switch repeated.name {
	case "array", listName + "_tuple":
		return false
	}
	return true
}

func decodeMap(node *schemaNode, columns [][]parquet.Value, lvl levels) (interface{}, error) {
	if len(node.fields) != 1 || !node.fields[0].node.Repeated() || len(node.fields[0].fields) != 2 {
		return decodeGroup(node, columns, lvl)
	}
	key, value := node.fields[0].fields[0], node.fields[0].fields[1]

	items, err := decodeRepeated(columns, lvl, func(columns [][]parquet.Value, lvl levels) (interface{}, error) {
		k, err := decodeNode(key, columns[:key.numColumns], lvl)
		if err != nil {
			return nil, err
		}
		v, err := decodeNode(value, columns[key.numColumns:], lvl)
		if err != nil {
			return nil, err
		}
		return Field{Name: mapKeyString(k), Value: v}, nil
	})
	if err != nil {
		return nil, err
	}

	list := items.([]interface{})
	object := make(Object, len(list))
	for i, item := range list {
		object[i] = item.(Field)
	}
	return object, nil
}

func mapKeyString(key interface{}) string {
	switch k := key.(type) {
	case string:
		return k
	case []byte:
		return string(k)
	case json.RawMessage:
		return string(k)
	default:
		return fmt.Sprint(k)
	}
}

// decodeRepeated splits the column values of a repeated node into one range
// per element and decodes each of them with decodeElement. A definition level
// lower than the one of the node denotes an empty list.
func decodeRepeated(columns [][]parquet.Value, lvl levels, decodeElement func([][]parquet.Value, levels) (interface{}, error)) (interface{}, error) {
	lvl.repetitionLevel++
	lvl.definitionLevel++

	if int(columns[0][0].DefinitionLevel()) < lvl.definitionLevel {
		return []interface{}{}, nil
	}

	numElements := countElements(columns[0], lvl.repetitionLevel)
	for _, values := range columns[1:] {
		if n := countElements(values, lvl.repetitionLevel); n != numElements {
			return nil, fmt.Errorf("%w: repeated column lengths mismatch: %d != %d", ErrFormat, n, numElements)
		}
	}

	list := make([]interface{}, 0, numElements)
	offsets := make([]int, len(columns))
	element := make([][]parquet.Value, len(columns))

	for len(list) < numElements {
		for i, values := range columns {
			end := nextElement(values, offsets[i], lvl.repetitionLevel)
			element[i] = values[offsets[i]:end]
			offsets[i] = end
		}
		value, err := decodeElement(element, lvl)
		if err != nil {
			return nil, err
		}
		list = append(list, value)
	}

	return list, nil
}

// countElements returns the number of elements of the repeated node with the
// given repetition level that values are made of.
func countElements(values []parquet.Value, repetitionLevel int) int {
	n := 1
	for _, v := range values[1:] {
		if int(v.RepetitionLevel()) <= repetitionLevel {
			n++
		}
	}
	return n
}

// nextElement returns the index of the first value past the element starting at
// offset.
func nextElement(values []parquet.Value, offset, repetitionLevel int) int {
	for i := offset + 1; i < len(values); i++ {
		if int(values[i].RepetitionLevel()) <= repetitionLevel {
			return i
		}
	}
	return len(values)
}

func decodeLeaf(typ parquet.Type, value parquet.Value) (interface{}, error) {
	if value.IsNull() {
		return nil, nil
	}

	switch value.Kind() {
	case parquet.Boolean:
		return value.Boolean(), nil
	case parquet.Int32:
		return value.Int32(), nil
	case parquet.Int64:
		return value.Int64(), nil
	case parquet.Int96:
		return value.String(), nil
	case parquet.Float:
		return value.Float(), nil
	case parquet.Double:
		return value.Double(), nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return decodeBytes(typ, value.ByteArray())
	default:
		return nil, fmt.Errorf("%w: unsupported value kind %s", ErrFormat, value.Kind())
	}
}

func decodeBytes(typ parquet.Type, b []byte) (interface{}, error) {
	if lt := typ.LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil, lt.Enum != nil:
			return string(b), nil
		case lt.Json != nil:
			return json.RawMessage(copyBytes(b)), nil
		case lt.UUID != nil:
			id, err := uuid.FromBytes(b)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
			return id.String(), nil
		}
	}
	if ct := typ.ConvertedType(); ct != nil {
		switch *ct {
		case deprecated.UTF8, deprecated.Enum:
			return string(b), nil
		case deprecated.Json:
			return json.RawMessage(copyBytes(b)), nil
		}
	}
	return copyBytes(b), nil
}

func copyBytes(b []byte) []byte {
	return append(make([]byte, 0, len(b)), b...)
}
