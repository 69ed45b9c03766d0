package rowproject

import (
	"github.com/segmentio/parquet-go"
)

// FileInfo describes the layout of a parquet file.
type FileInfo struct {
	NumRows      int64
	NumRowGroups int
	Columns      []ColumnInfo
}

// ColumnInfo describes a top-level column of a parquet file.
type ColumnInfo struct {
	Name       string
	Type       string
	Repetition string
	Leaves     int
}

// Inspect reads the metadata of the parquet file at path.
func Inspect(path string) (*FileInfo, error) {
	f, file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	kinds := groupKindsOf(file.Metadata())
	fields := file.Schema().Fields()
	info := &FileInfo{
		NumRows:      file.NumRows(),
		NumRowGroups: len(file.RowGroups()),
		Columns:      make([]ColumnInfo, len(fields)),
	}

	for i, field := range fields {
		node := newSchemaNode(field, field.Name(), kinds)
		info.Columns[i] = ColumnInfo{
			Name:       node.name,
			Type:       typeName(node),
			Repetition: repetitionOf(field),
			Leaves:     node.numColumns,
		}
	}

	return info, nil
}

func typeName(node *schemaNode) string {
	if node.kind == leafNode {
		return node.node.Type().String()
	}
	return node.kind.String()
}

func repetitionOf(node parquet.Node) string {
	switch {
	case node.Repeated():
		return "repeated"
	case node.Optional():
		return "optional"
	default:
		return "required"
	}
}
