package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

// marshalPropertyValue converts v (the Go representation for pd's
// PropertyType) into a JSON-marshalable value per spec.md §4.H's
// per-PropertyType serialization table, handling the multivalued case
// as a JSON array of the scalar form.
func marshalPropertyValue(v any, pd types.PropertyDef) (any, error) {
	if pd.Multivalued {
		items, _ := v.([]any)
		out := make([]any, len(items))
		for i, item := range items {
			scalar, err := marshalScalar(item, pd.Type)
			if err != nil {
				return nil, err
			}
			out[i] = scalar
		}
		return out, nil
	}
	return marshalScalar(v, pd.Type)
}

func marshalScalar(v any, pt value.PropertyType) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch pt {
	case value.Integer:
		return v.(int64), nil
	case value.Float:
		return v.(float64), nil
	case value.Boolean:
		return v.(bool), nil
	case value.String, value.Text, value.CLOB:
		return v.(string), nil
	case value.BigInteger:
		return v.(*big.Int).String(), nil
	case value.BigDecimal:
		return v.(decimal.Decimal).String(), nil
	case value.DateTime:
		return v.(time.Time).UTC().Format(time.RFC3339Nano), nil
	case value.URI:
		return v.(*url.URL).String(), nil
	case value.UUID:
		return v.(uuid.UUID).String(), nil
	case value.BLOB:
		return hex.EncodeToString(v.([]byte)), nil
	default:
		return nil, catalogerr.New(catalogerr.KindWireFormat, "marshalScalar", "unknown property type "+string(pt))
	}
}

// unmarshalPropertyValue is marshalPropertyValue's inverse, given the
// raw JSON for one property and its PropertyDef.
func unmarshalPropertyValue(raw json.RawMessage, pd types.PropertyDef) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if pd.Multivalued {
		var rawItems []json.RawMessage
		if err := json.Unmarshal(raw, &rawItems); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "unmarshalPropertyValue", "decode array for "+pd.Name, err)
		}
		out := make([]any, len(rawItems))
		for i, item := range rawItems {
			scalar, err := unmarshalScalar(item, pd.Type)
			if err != nil {
				return nil, err
			}
			out[i] = scalar
		}
		return out, nil
	}
	return unmarshalScalar(raw, pd.Type)
}

func unmarshalScalar(raw json.RawMessage, pt value.PropertyType) (any, error) {
	switch pt {
	case value.Integer:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return n, nil
	case value.Float:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return f, nil
	case value.Boolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return b, nil
	case value.String, value.Text, value.CLOB:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return s, nil
	case value.BigInteger:
		s, err := unmarshalJSONString(raw)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, scalarErr(raw, pt, fmt.Errorf("invalid integer literal %q", s))
		}
		return n, nil
	case value.BigDecimal:
		s, err := unmarshalJSONString(raw)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return d, nil
	case value.DateTime:
		s, err := unmarshalJSONString(raw)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return t, nil
	case value.URI:
		s, err := unmarshalJSONString(raw)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		u, err := url.Parse(s)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return u, nil
	case value.UUID:
		s, err := unmarshalJSONString(raw)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return id, nil
	case value.BLOB:
		s, err := unmarshalJSONString(raw)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, scalarErr(raw, pt, err)
		}
		return b, nil
	default:
		return nil, catalogerr.New(catalogerr.KindWireFormat, "unmarshalScalar", "unknown property type "+string(pt))
	}
}

func unmarshalJSONString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func scalarErr(raw json.RawMessage, pt value.PropertyType, cause error) error {
	return catalogerr.Wrap(catalogerr.KindWireFormat, "unmarshalScalar",
		fmt.Sprintf("cannot decode %s as %s", string(raw), pt), cause)
}
