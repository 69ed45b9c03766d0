package rowproject

import (
	"github.com/segmentio/parquet-go"
	"github.com/segmentio/parquet-go/deprecated"
	"github.com/segmentio/parquet-go/format"
)

type nodeKind int

const (
	groupNode nodeKind = iota
	leafNode
	listNode
	mapNode
)

func (kind nodeKind) String() string {
	switch kind {
	case leafNode:
		return "LEAF"
	case listNode:
		return "LIST"
	case mapNode:
		return "MAP"
	default:
		return "GROUP"
	}
}

// schemaNode is a parquet schema node with its LIST or MAP annotation
// resolved, and the number of leaf columns under it.
type schemaNode struct {
	node       parquet.Node
	name       string
	kind       nodeKind
	numColumns int
	fields     []*schemaNode
}

// groupKinds maps the paths of the annotated groups of a file schema to
// their kind. Paths are the names from the root joined with pathSeparator.
type groupKinds map[string]nodeKind

const pathSeparator = "\x00"

// groupKindsOf reads the LIST and MAP annotations of the groups of a file
// schema.
//
// The group nodes that parquet-go builds from file metadata do not expose
// their logical or converted types, so the annotations are taken from the
// flattened schema elements of the footer.
func groupKindsOf(metadata *format.FileMetaData) groupKinds {
	kinds := make(groupKinds)
	elements := metadata.Schema
	if len(elements) == 0 {
		return kinds
	}

	var walk func(i int, path string) int
	walk = func(i int, path string) int {
		numChildren := int(elements[i].NumChildren)
		i++
		for n := 0; n < numChildren && i < len(elements); n++ {
			element := &elements[i]
			elementPath := element.Name
			if path != "" {
				elementPath = path + pathSeparator + element.Name
			}
			if element.NumChildren > 0 {
				if kind := kindOf(element.LogicalType, element.ConvertedType); kind != groupNode {
					kinds[elementPath] = kind
				}
			}
			i = walk(i, elementPath)
		}
		return i
	}

	walk(0, "")
	return kinds
}

// newSchemaNode resolves the tree rooted at node, which sits at path in the
// schema. Annotations found in kinds take precedence over the node types.
func newSchemaNode(node parquet.Node, path string, kinds groupKinds) *schemaNode {
	n := &schemaNode{
		node: node,
		name: nodeName(node),
	}

	if node.Leaf() {
		n.kind = leafNode
		n.numColumns = 1
		return n
	}

	if kind, ok := kinds[path]; ok {
		n.kind = kind
	} else {
		typ := node.Type()
		n.kind = kindOf(typ.LogicalType(), typ.ConvertedType())
	}

	fields := node.Fields()
	n.fields = make([]*schemaNode, len(fields))
	for i, field := range fields {
		n.fields[i] = newSchemaNode(field, path+pathSeparator+field.Name(), kinds)
		n.numColumns += n.fields[i].numColumns
	}
	return n
}

func kindOf(logicalType *format.LogicalType, convertedType *deprecated.ConvertedType) nodeKind {
	if logicalType != nil {
		switch {
		case logicalType.List != nil:
			return listNode
		case logicalType.Map != nil:
			return mapNode
		}
	}
	if convertedType != nil {
		switch *convertedType {
		case deprecated.List:
			return listNode
		case deprecated.Map, deprecated.MapKeyValue:
			return mapNode
		}
	}
	return groupNode
}

func nodeName(node parquet.Node) string {
	if field, ok := node.(parquet.Field); ok {
		return field.Name()
	}
	return ""
}

func numLeafColumnsOf(node parquet.Node) int {
	if node.Leaf() {
		return 1
	}
	n := 0
	for _, field := range node.Fields() {
		n += numLeafColumnsOf(field)
	}
	return n
}
