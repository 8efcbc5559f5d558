package storage

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/value"
)

// textForValue implements the value-to-string rule (spec.md §4.G "All
// property values go through one property_value table. Values serialize
// to either value_text ... or value_binary (raw bytes for BLOB ...)").
// It returns (text, binary); exactly one is meaningful per pt, except
// BLOB which this DAO always routes through value_binary (sqlite
// supports native BLOB columns).
func textForValue(v any, pt value.PropertyType) (string, []byte, error) {
	if v == nil {
		return "", nil, nil
	}
	switch pt {
	case value.Integer:
		return strconv.FormatInt(v.(int64), 10), nil, nil
	case value.Float:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64), nil, nil
	case value.Boolean:
		if v.(bool) {
			return "true", nil, nil
		}
		return "false", nil, nil
	case value.String, value.Text, value.CLOB:
		return v.(string), nil, nil
	case value.BigInteger:
		return v.(*big.Int).String(), nil, nil
	case value.BigDecimal:
		return v.(decimal.Decimal).String(), nil, nil
	case value.DateTime:
		return v.(time.Time).UTC().Format(time.RFC3339Nano), nil, nil
	case value.URI:
		return v.(*url.URL).String(), nil, nil
	case value.UUID:
		return v.(uuid.UUID).String(), nil, nil
	case value.BLOB:
		return hex.EncodeToString(v.([]byte)), v.([]byte), nil
	default:
		return "", nil, catalogerr.New(catalogerr.KindStorage, "textForValue", "unknown property type "+string(pt))
	}
}

// valueFromText reverses textForValue, reconstructing the Go
// representation a PropertyType carries in memory (spec.md §4.A parse
// rules), preferring binary when the dialect returned it.
func valueFromText(text string, binary []byte, pt value.PropertyType) (any, error) {
	if text == "" && binary == nil {
		return nil, nil
	}
	switch pt {
	case value.Integer:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, coerceErr(text, pt, err)
		}
		return n, nil
	case value.Float:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, coerceErr(text, pt, err)
		}
		return f, nil
	case value.Boolean:
		return text == "true", nil
	case value.String, value.Text, value.CLOB:
		return text, nil
	case value.BigInteger:
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, coerceErr(text, pt, fmt.Errorf("invalid integer literal"))
		}
		return n, nil
	case value.BigDecimal:
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, coerceErr(text, pt, err)
		}
		return d, nil
	case value.DateTime:
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, coerceErr(text, pt, err)
		}
		return t, nil
	case value.URI:
		u, err := url.Parse(text)
		if err != nil {
			return nil, coerceErr(text, pt, err)
		}
		return u, nil
	case value.UUID:
		id, err := uuid.Parse(text)
		if err != nil {
			return nil, coerceErr(text, pt, err)
		}
		return id, nil
	case value.BLOB:
		if binary != nil {
			return binary, nil
		}
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, coerceErr(text, pt, err)
		}
		return b, nil
	default:
		return nil, catalogerr.New(catalogerr.KindStorage, "valueFromText", "unknown property type "+string(pt))
	}
}

func coerceErr(text string, pt value.PropertyType, cause error) error {
	return catalogerr.Wrap(catalogerr.KindCoerce, "valueFromText",
		fmt.Sprintf("cannot parse %q as %s", text, pt), cause)
}
