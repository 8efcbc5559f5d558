package value

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Adapter coerces arbitrary input values toward a target PropertyType
// (spec.md §4.A). A zero-value Adapter is ready to use; Zone configures
// the time zone used when a temporal input carries none.
type Adapter struct {
	// Zone is consulted when coercing a temporal value with no zone
	// information (e.g. a bare epoch). Defaults to time.Local if nil.
	Zone *time.Location
}

func (a *Adapter) zone() *time.Location {
	if a.Zone != nil {
		return a.Zone
	}
	return time.Local
}

// Coerce converts v toward pt. If multivalued is true, v must be a slice
// (reflect-free: []any, or a concrete slice handled by the caller) and
// each element is coerced independently; a scalar input is rejected.
func (a *Adapter) Coerce(v any, pt PropertyType, multivalued bool) (any, error) {
	if v == nil {
		return nil, nil
	}
	if multivalued {
		items, ok := v.([]any)
		if !ok {
			return nil, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: string(pt) + "[]"}
		}
		out := make([]any, len(items))
		for i, item := range items {
			cv, err := a.coerceScalar(item, pt)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	}
	return a.coerceScalar(v, pt)
}

func (a *Adapter) coerceScalar(v any, pt PropertyType) (any, error) {
	if v == nil {
		return nil, nil
	}
	// Already in canonical shape.
	if ValidateScalar(v, pt) == nil {
		return v, nil
	}

	switch pt {
	case Integer:
		return a.toInt64(v)
	case Float:
		return a.toFloat64(v)
	case Boolean:
		return a.toBool(v)
	case String, Text, CLOB:
		return a.toString(v)
	case BigInteger:
		return a.toBigInt(v)
	case BigDecimal:
		return a.toBigDecimal(v)
	case DateTime:
		return a.toDateTime(v)
	case URI:
		return a.toURI(v)
	case UUID:
		return a.toUUID(v)
	case BLOB:
		return a.toBlob(v)
	default:
		return nil, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: string(pt)}
	}
}

func (a *Adapter) toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case float32:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case *big.Int:
		if !t.IsInt64() {
			return 0, &catalogerr.CoerceError{FromType: "BIG", ToType: "INT", Cause: fmt.Errorf("overflows int64")}
		}
		return t.Int64(), nil
	case decimal.Decimal:
		return t.IntPart(), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, &catalogerr.CoerceError{FromType: "STR", ToType: "INT", Cause: err}
		}
		return n, nil
	default:
		return 0, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "INT"}
	}
}

func (a *Adapter) toFloat64(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	case *big.Int:
		f := new(big.Float).SetInt(t)
		out, _ := f.Float64()
		return out, nil
	case decimal.Decimal:
		f, _ := t.Float64()
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, &catalogerr.CoerceError{FromType: "STR", ToType: "FLT", Cause: err}
		}
		return f, nil
	default:
		return 0, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "FLT"}
	}
}

func (a *Adapter) toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case int:
		return t != 0, nil
	case int64:
		return t != 0, nil
	case float64:
		return t != 0, nil
	case *big.Int:
		return t.Sign() != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			b, err := strconv.ParseBool(t)
			if err != nil {
				return false, &catalogerr.CoerceError{FromType: "STR", ToType: "BLN", Cause: err}
			}
			return b, nil
		}
	default:
		return false, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "BLN"}
	}
}

func (a *Adapter) toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case *big.Int:
		return t.String(), nil
	case decimal.Decimal:
		return t.String(), nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case *url.URL:
		return t.String(), nil
	case uuid.UUID:
		return t.String(), nil
	case []byte:
		return hex.EncodeToString(t), nil
	default:
		return "", &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "STR"}
	}
}

func (a *Adapter) toBigInt(v any) (*big.Int, error) {
	switch t := v.(type) {
	case *big.Int:
		return t, nil
	case int:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case string:
		n, ok := new(big.Int).SetString(strings.TrimSpace(t), 10)
		if !ok {
			return nil, &catalogerr.CoerceError{FromType: "STR", ToType: "BIG", Cause: fmt.Errorf("not a canonical decimal integer")}
		}
		return n, nil
	case decimal.Decimal:
		if !t.Truncate(0).Equal(t) {
			return nil, &catalogerr.CoerceError{FromType: "DEC", ToType: "BIG", Cause: fmt.Errorf("fractional value has no exact integer representation")}
		}
		return t.BigInt(), nil
	default:
		return nil, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "BIG"}
	}
}

func (a *Adapter) toBigDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Decimal{}, &catalogerr.CoerceError{FromType: "STR", ToType: "DEC", Cause: err}
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case *big.Int:
		return decimal.NewFromBigInt(t, 0), nil
	default:
		return decimal.Decimal{}, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "DEC"}
	}
}

// toDateTime parses per spec.md §4.A: strings follow ISO-8601; a missing
// zone on the parsed value defaults to the adapter's configured zone.
func (a *Adapter) toDateTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case int64:
		return time.Unix(t, 0).In(a.zone()), nil
	case string:
		s := strings.TrimSpace(t)
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			parsed, err = time.ParseInLocation("2006-01-02T15:04:05", s, a.zone())
		}
		if err != nil {
			return time.Time{}, &catalogerr.CoerceError{FromType: "STR", ToType: "DAT", Cause: err}
		}
		if parsed.Location() == time.UTC && !strings.Contains(s, "Z") && !strings.Contains(s, "+") {
			parsed = parsed.In(a.zone())
		}
		return parsed, nil
	default:
		return time.Time{}, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "DAT"}
	}
}

func (a *Adapter) toURI(v any) (*url.URL, error) {
	switch t := v.(type) {
	case *url.URL:
		return t, nil
	case string:
		u, err := url.Parse(strings.TrimSpace(t))
		if err != nil {
			return nil, &catalogerr.CoerceError{FromType: "STR", ToType: "URI", Cause: err}
		}
		return u, nil
	default:
		return nil, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "URI"}
	}
}

func (a *Adapter) toUUID(v any) (uuid.UUID, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(t))
		if err != nil {
			return uuid.UUID{}, &catalogerr.CoerceError{FromType: "STR", ToType: "UID", Cause: err}
		}
		return id, nil
	case [16]byte:
		return uuid.UUID(t), nil
	default:
		return uuid.UUID{}, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "UID"}
	}
}

func (a *Adapter) toBlob(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		b, err := hex.DecodeString(strings.TrimSpace(t))
		if err != nil {
			return nil, &catalogerr.CoerceError{FromType: "STR", ToType: "BLB", Cause: err}
		}
		return b, nil
	default:
		return nil, &catalogerr.CoerceError{FromType: fmt.Sprintf("%T", v), ToType: "BLB"}
	}
}
