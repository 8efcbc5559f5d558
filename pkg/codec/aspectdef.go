package codec

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

func marshalAspectDef(ad *types.AspectDef) (*orderedMap, error) {
	props := ad.Properties.Defs()
	propsOut := make([]*orderedMap, len(props))
	for i, pd := range props {
		pdOut, err := marshalPropertyDef(pd)
		if err != nil {
			return nil, err
		}
		propsOut[i] = pdOut
	}
	m := newOrderedMap()
	m.set("name", ad.Name)
	m.set("properties", propsOut)
	m.set("canAddProperties", ad.CanAddProperties)
	m.set("canRemoveProperties", ad.CanRemoveProperties)
	m.set("readable", ad.Readable)
	m.set("writable", ad.Writable)
	return m, nil
}

func marshalPropertyDef(pd types.PropertyDef) (*orderedMap, error) {
	m := newOrderedMap()
	m.set("name", pd.Name)
	m.set("type", string(pd.Type))
	m.set("hasDefaultValue", pd.HasDefault)
	if pd.HasDefault {
		dv, err := marshalPropertyValue(pd.Default, pd)
		if err != nil {
			return nil, err
		}
		m.set("defaultValue", dv)
	}
	m.set("readable", pd.Readable)
	m.set("writable", pd.Writable)
	m.set("nullable", pd.Nullable)
	m.set("removable", pd.Removable)
	m.set("multivalued", pd.Multivalued)
	return m, nil
}

// propertyDefWire is the decode-side shape for a PropertyDef.
type propertyDefWire struct {
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	HasDefaultValue bool            `json:"hasDefaultValue"`
	DefaultValue    json.RawMessage `json:"defaultValue"`
	Readable        bool            `json:"readable"`
	Writable        bool            `json:"writable"`
	Nullable        bool            `json:"nullable"`
	Removable       bool            `json:"removable"`
	Multivalued     bool            `json:"multivalued"`
}

// aspectDefWire is the decode-side shape for an AspectDef.
type aspectDefWire struct {
	Name                string            `json:"name"`
	Properties          []propertyDefWire `json:"properties"`
	CanAddProperties    bool              `json:"canAddProperties"`
	CanRemoveProperties bool              `json:"canRemoveProperties"`
	Readable            bool              `json:"readable"`
	Writable            bool              `json:"writable"`
}

func (w propertyDefWire) toPropertyDef() (types.PropertyDef, error) {
	pt := value.PropertyType(w.Type)
	if !pt.Valid() {
		return types.PropertyDef{}, catalogerr.New(catalogerr.KindWireFormat, "toPropertyDef", "unknown property type "+w.Type)
	}
	opts := []types.PropertyDefOption{}
	if !w.Readable {
		opts = append(opts, types.NotReadable())
	}
	if !w.Writable {
		opts = append(opts, types.NotWritable())
	}
	if !w.Nullable {
		opts = append(opts, types.NotNullable())
	}
	if !w.Removable {
		opts = append(opts, types.NotRemovable())
	}
	if w.Multivalued {
		opts = append(opts, types.Multivalued())
	}
	if w.HasDefaultValue {
		probe := types.PropertyDef{Type: pt, Multivalued: w.Multivalued}
		dv, err := unmarshalPropertyValue(w.DefaultValue, probe)
		if err != nil {
			return types.PropertyDef{}, err
		}
		opts = append(opts, types.WithDefault(dv))
	}
	pd, err := types.NewPropertyDef(w.Name, pt, opts...)
	if err != nil {
		return types.PropertyDef{}, catalogerr.Wrap(catalogerr.KindWireFormat, "toPropertyDef", "property "+w.Name, err)
	}
	return pd, nil
}

// toAspectDef rebuilds an *types.AspectDef from the wire shape, binding it
// into f's AspectDefDictionary under its name. If an AspectDef of the same
// name is already bound, the existing instance is returned so repeated
// references (base def vs. extension list) resolve to one identity.
func (w aspectDefWire) toAspectDef(f *registry.Factory) (*types.AspectDef, error) {
	if existing, ok := f.AspectDefs.Resolve(w.Name); ok {
		return existing, nil
	}
	defs := make([]types.PropertyDef, len(w.Properties))
	for i, pw := range w.Properties {
		pd, err := pw.toPropertyDef()
		if err != nil {
			return nil, err
		}
		defs[i] = pd
	}
	props, err := types.NewPropertyMap(defs...)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toAspectDef", "aspect def "+w.Name, err)
	}
	ad := types.NewAspectDef(w.Name, uuid.New(), props, types.VariantFull)
	ad.SetMutability(w.CanAddProperties, w.CanRemoveProperties)
	ad.Readable = w.Readable
	ad.Writable = w.Writable
	f.AspectDefs.Bind(ad)
	return ad, nil
}
