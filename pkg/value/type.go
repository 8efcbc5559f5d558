package value

import (
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyType is one of the twelve closed value kinds (spec.md §3). The
// string value is the three-letter wire/DB code used verbatim in the JSON
// codec and SQL column-type mapping.
type PropertyType string

const (
	Integer    PropertyType = "INT"
	Float      PropertyType = "FLT"
	Boolean    PropertyType = "BLN"
	String     PropertyType = "STR"
	Text       PropertyType = "TXT"
	BigInteger PropertyType = "BIG"
	BigDecimal PropertyType = "DEC"
	DateTime   PropertyType = "DAT"
	URI        PropertyType = "URI"
	UUID       PropertyType = "UID"
	CLOB       PropertyType = "CLB"
	BLOB       PropertyType = "BLB"
)

// AllPropertyTypes lists the twelve kinds in the order spec.md's table
// presents them. Used by the JSON codec's validation and by tests that
// want to exercise every kind.
var AllPropertyTypes = []PropertyType{
	Integer, Float, Boolean, String, Text, BigInteger, BigDecimal,
	DateTime, URI, UUID, CLOB, BLOB,
}

// Valid reports whether pt is one of the twelve known kinds.
func (pt PropertyType) Valid() bool {
	switch pt {
	case Integer, Float, Boolean, String, Text, BigInteger, BigDecimal,
		DateTime, URI, UUID, CLOB, BLOB:
		return true
	default:
		return false
	}
}

// String method of PropertyType returns the wire/DB code; implements
// fmt.Stringer for log-friendly printing.
func (pt PropertyType) String() string { return string(pt) }

// GoType describes the Go representation a PropertyType's abstract value
// takes in memory, for documentation and reflective validation.
func (pt PropertyType) GoType() string {
	switch pt {
	case Integer:
		return "int64"
	case Float:
		return "float64"
	case Boolean:
		return "bool"
	case String, Text, CLOB:
		return "string"
	case BigInteger:
		return "*big.Int"
	case BigDecimal:
		return "decimal.Decimal"
	case DateTime:
		return "time.Time"
	case URI:
		return "*url.URL"
	case UUID:
		return "uuid.UUID"
	case BLOB:
		return "[]byte"
	default:
		return "unknown"
	}
}

// ValidateScalar reports whether v is the Go representation ValidateScalar
// expects for pt — it does not coerce, only checks shape (spec.md §4.A
// draws a hard line between the Adapter's coercion and the caller's own
// nullability enforcement against the PropertyDef).
func ValidateScalar(v any, pt PropertyType) error {
	if v == nil {
		return nil
	}
	switch pt {
	case Integer:
		_, ok := v.(int64)
		return shapeErr(ok, pt, v)
	case Float:
		_, ok := v.(float64)
		return shapeErr(ok, pt, v)
	case Boolean:
		_, ok := v.(bool)
		return shapeErr(ok, pt, v)
	case String, Text, CLOB:
		_, ok := v.(string)
		return shapeErr(ok, pt, v)
	case BigInteger:
		_, ok := v.(*big.Int)
		return shapeErr(ok, pt, v)
	case BigDecimal:
		_, ok := v.(decimal.Decimal)
		return shapeErr(ok, pt, v)
	case DateTime:
		_, ok := v.(time.Time)
		return shapeErr(ok, pt, v)
	case URI:
		_, ok := v.(*url.URL)
		return shapeErr(ok, pt, v)
	case UUID:
		_, ok := v.(uuid.UUID)
		return shapeErr(ok, pt, v)
	case BLOB:
		_, ok := v.([]byte)
		return shapeErr(ok, pt, v)
	default:
		return fmt.Errorf("unknown property type %q", pt)
	}
}

func shapeErr(ok bool, pt PropertyType, v any) error {
	if ok {
		return nil
	}
	return fmt.Errorf("value %v (%T) is not a valid %s representation (want %s)", v, v, pt, pt.GoType())
}

