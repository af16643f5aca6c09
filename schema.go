package typedcol

import "fmt"

type ColumnType uint8

const (
	ColText ColumnType = iota // UTF-8
	ColInt64
	ColFloat64
	ColBool
	ColBlob   // opaque byte stream
	ColEnum   // member of a fixed value set, stored by position
	ColObject // serialized structured value
	ColArray  // serialized flat scalar list
)

func (t ColumnType) String() string {
	switch t {
	case ColText:
		return "text"
	case ColInt64:
		return "int64"
	case ColFloat64:
		return "float64"
	case ColBool:
		return "bool"
	case ColBlob:
		return "blob"
	case ColEnum:
		return "enum"
	case ColObject:
		return "object"
	case ColArray:
		return "array"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseColumnType maps a declaration string (as found in schema files) to a ColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	switch s {
	case "text":
		return ColText, nil
	case "int64", "int":
		return ColInt64, nil
	case "float64", "float":
		return ColFloat64, nil
	case "bool":
		return ColBool, nil
	case "blob":
		return ColBlob, nil
	case "enum":
		return ColEnum, nil
	case "object":
		return ColObject, nil
	case "array":
		return ColArray, nil
	default:
		return 0, fmt.Errorf("typedcol: unknown column type %q", s)
	}
}

type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool

	// Enum is required for ColEnum columns and must be nil otherwise.
	Enum *EnumSpec
}

type Schema struct {
	Cols []Column
}

func (s Schema) NumCols() int { return len(s.Cols) }

// ColIndex returns the position of the named column, or -1 if absent.
func (s Schema) ColIndex(name string) int {
	for i := range s.Cols {
		if s.Cols[i].Name == name {
			return i
		}
	}
	return -1
}

// Col looks up a column by name.
func (s Schema) Col(name string) (Column, bool) {
	i := s.ColIndex(name)
	if i < 0 {
		return Column{}, false
	}
	return s.Cols[i], true
}
