package types

import (
	"fmt"

	"github.com/cuemby/catalogengine/pkg/value"
	"github.com/google/uuid"
)

// Entity is a bearer of identity with a single attribute: a 128-bit
// globally unique identifier. Entities do not own their attributes; they
// are referenced by Aspects via the UUID (spec.md §3 "Entities and
// identity"). Two Entities are equal iff their UUIDs are equal.
type Entity struct {
	ID uuid.UUID
}

// NewEntity wraps an existing UUID as an Entity. Callers that want
// process-wide interning should go through pkg/registry.EntityRegistry
// instead of constructing Entities directly.
func NewEntity(id uuid.UUID) Entity { return Entity{ID: id} }

// Equal reports whether two Entities share the same UUID.
func (e Entity) Equal(other Entity) bool { return e.ID == other.ID }

func (e Entity) String() string { return e.ID.String() }

// Species is the Catalog's role (spec.md §3).
type Species string

const (
	SpeciesSink   Species = "SINK"
	SpeciesSource Species = "SOURCE"
	SpeciesMirror Species = "MIRROR"
)

// Valid reports whether s is one of the three known species.
func (s Species) Valid() bool {
	switch s {
	case SpeciesSink, SpeciesSource, SpeciesMirror:
		return true
	default:
		return false
	}
}

// HierarchyKind is one of the five container kinds (spec.md §3
// "Hierarchies"). Code is the three-letter wire/DB tag used by the JSON
// codec (pkg/codec) and the hierarchy metadata row (pkg/storage).
type HierarchyKind string

const (
	EntityList HierarchyKind = "ENTITY_LIST"
	EntitySet  HierarchyKind = "ENTITY_SET"
	EntityDir  HierarchyKind = "ENTITY_DIR"
	EntityTree HierarchyKind = "ENTITY_TREE"
	AspectMap  HierarchyKind = "ASPECT_MAP"
)

// Code returns the three-letter wire/DB tag for the kind.
func (k HierarchyKind) Code() string {
	switch k {
	case EntityList:
		return "LST"
	case EntitySet:
		return "SET"
	case EntityDir:
		return "DIR"
	case EntityTree:
		return "TRE"
	case AspectMap:
		return "ASP"
	default:
		return ""
	}
}

// HierarchyKindFromCode reverses Code, for codec/storage deserialization.
func HierarchyKindFromCode(code string) (HierarchyKind, error) {
	switch code {
	case "LST":
		return EntityList, nil
	case "SET":
		return EntitySet, nil
	case "DIR":
		return EntityDir, nil
	case "TRE":
		return EntityTree, nil
	case "ASP":
		return AspectMap, nil
	default:
		return "", fmt.Errorf("unknown hierarchy type code %q", code)
	}
}

func (k HierarchyKind) Valid() bool {
	switch k {
	case EntityList, EntitySet, EntityDir, EntityTree, AspectMap:
		return true
	default:
		return false
	}
}

// PropertyDef is a single typed, flagged slot within an AspectDef
// (spec.md §3). It is immutable after construction — callers must not
// mutate a PropertyDef obtained from an AspectDef; build a new one and
// replace it via AspectDef.AddProperty/RemoveProperty instead.
type PropertyDef struct {
	Name         string
	Type         value.PropertyType
	Default      any
	HasDefault   bool
	Readable     bool
	Writable     bool
	Nullable     bool
	Removable    bool
	Multivalued  bool
}

// NewPropertyDef constructs a PropertyDef, validating that Default (when
// HasDefault is set) matches the declared Type's Go representation.
func NewPropertyDef(name string, t value.PropertyType, opts ...PropertyDefOption) (PropertyDef, error) {
	pd := PropertyDef{
		Name:      name,
		Type:      t,
		Readable:  true,
		Writable:  true,
		Nullable:  true,
		Removable: true,
	}
	for _, opt := range opts {
		opt(&pd)
	}
	if !t.Valid() {
		return PropertyDef{}, fmt.Errorf("property %q: invalid property type %q", name, t)
	}
	if pd.HasDefault && pd.Default != nil {
		if pd.Multivalued {
			items, ok := pd.Default.([]any)
			if !ok {
				return PropertyDef{}, fmt.Errorf("property %q: multivalued default must be []any", name)
			}
			for _, item := range items {
				if err := value.ValidateScalar(item, t); err != nil {
					return PropertyDef{}, fmt.Errorf("property %q: %w", name, err)
				}
			}
		} else if err := value.ValidateScalar(pd.Default, t); err != nil {
			return PropertyDef{}, fmt.Errorf("property %q: %w", name, err)
		}
	}
	return pd, nil
}

// PropertyDefOption configures optional PropertyDef flags at construction.
type PropertyDefOption func(*PropertyDef)

func WithDefault(v any) PropertyDefOption {
	return func(pd *PropertyDef) {
		pd.Default = v
		pd.HasDefault = true
	}
}

func NotReadable() PropertyDefOption  { return func(pd *PropertyDef) { pd.Readable = false } }
func NotWritable() PropertyDefOption  { return func(pd *PropertyDef) { pd.Writable = false } }
func NotNullable() PropertyDefOption  { return func(pd *PropertyDef) { pd.Nullable = false } }
func NotRemovable() PropertyDefOption { return func(pd *PropertyDef) { pd.Removable = false } }
func Multivalued() PropertyDefOption  { return func(pd *PropertyDef) { pd.Multivalued = true } }

// Equal reports structural equality over all fields (spec.md §4.B).
func (pd PropertyDef) Equal(other PropertyDef) bool {
	return pd.Name == other.Name &&
		pd.Type == other.Type &&
		pd.HasDefault == other.HasDefault &&
		pd.Readable == other.Readable &&
		pd.Writable == other.Writable &&
		pd.Nullable == other.Nullable &&
		pd.Removable == other.Removable &&
		pd.Multivalued == other.Multivalued &&
		defaultsEqual(pd.Default, other.Default)
}

func defaultsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// PropertyMap is an insertion-ordered mapping from property name to
// PropertyDef, used by AspectDef. Insertion order is semantically
// meaningful (spec.md §3 invariant 2): it is the canonical column order.
type PropertyMap struct {
	order []string
	defs  map[string]PropertyDef
}

// NewPropertyMap builds an ordered PropertyMap from defs, in the order
// given. Duplicate names are rejected.
func NewPropertyMap(defs ...PropertyDef) (*PropertyMap, error) {
	pm := &PropertyMap{defs: make(map[string]PropertyDef, len(defs))}
	for _, d := range defs {
		if err := pm.add(d); err != nil {
			return nil, err
		}
	}
	return pm, nil
}

func (pm *PropertyMap) add(d PropertyDef) error {
	if _, exists := pm.defs[d.Name]; exists {
		return fmt.Errorf("duplicate property name %q", d.Name)
	}
	pm.order = append(pm.order, d.Name)
	pm.defs[d.Name] = d
	return nil
}

// Get returns the PropertyDef for name, and whether it exists.
func (pm *PropertyMap) Get(name string) (PropertyDef, bool) {
	d, ok := pm.defs[name]
	return d, ok
}

// Names returns property names in insertion (canonical column) order.
func (pm *PropertyMap) Names() []string {
	out := make([]string, len(pm.order))
	copy(out, pm.order)
	return out
}

// Defs returns the PropertyDefs in insertion order.
func (pm *PropertyMap) Defs() []PropertyDef {
	out := make([]PropertyDef, len(pm.order))
	for i, name := range pm.order {
		out[i] = pm.defs[name]
	}
	return out
}

// Len returns the number of properties.
func (pm *PropertyMap) Len() int { return len(pm.order) }

func (pm *PropertyMap) clone() *PropertyMap {
	c := &PropertyMap{
		order: make([]string, len(pm.order)),
		defs:  make(map[string]PropertyDef, len(pm.defs)),
	}
	copy(c.order, pm.order)
	for k, v := range pm.defs {
		c.defs[k] = v
	}
	return c
}

// AspectDefVariant names the three mutability shapes from spec.md §4.B.
type AspectDefVariant string

const (
	VariantImmutable AspectDefVariant = "immutable"
	VariantMutable   AspectDefVariant = "mutable"
	VariantFull      AspectDefVariant = "full"
)

// AspectDef is a named, versioned schema of typed properties (spec.md §3,
// §4.B). Name is the primary key across catalogs; UUID identifies a
// specific definition version.
type AspectDef struct {
	Name             string
	UUID             uuid.UUID
	Properties       *PropertyMap
	CanAddProperties bool
	CanRemoveProperties bool
	Readable         bool
	Writable         bool
}

// NewAspectDef constructs an AspectDef. variant picks the mutability
// flags; Full leaves both false until the caller sets them with
// SetMutability.
func NewAspectDef(name string, id uuid.UUID, props *PropertyMap, variant AspectDefVariant) *AspectDef {
	ad := &AspectDef{
		Name:       name,
		UUID:       id,
		Properties: props,
		Readable:   true,
		Writable:   true,
	}
	switch variant {
	case VariantImmutable:
		ad.CanAddProperties = false
		ad.CanRemoveProperties = false
	case VariantMutable:
		ad.CanAddProperties = true
		ad.CanRemoveProperties = true
	case VariantFull:
		// Mixed: caller sets flags explicitly via SetMutability.
	}
	return ad
}

// SetMutability overrides the add/remove flags directly, for the Full
// variant (spec.md §4.B: "flags mixed; the implementation exposes both
// operations but the contract enforces per-flag refusal").
func (ad *AspectDef) SetMutability(canAdd, canRemove bool) {
	ad.CanAddProperties = canAdd
	ad.CanRemoveProperties = canRemove
}

// Variant classifies the AspectDef's current flags.
func (ad *AspectDef) Variant() AspectDefVariant {
	switch {
	case !ad.CanAddProperties && !ad.CanRemoveProperties:
		return VariantImmutable
	case ad.CanAddProperties && ad.CanRemoveProperties:
		return VariantMutable
	default:
		return VariantFull
	}
}

// AddProperty adds a new PropertyDef, refusing if CanAddProperties is
// false or the name is a duplicate (spec.md §4.B, §7 SchemaError).
func (ad *AspectDef) AddProperty(pd PropertyDef) error {
	if !ad.CanAddProperties {
		return fmt.Errorf("aspect def %q: properties are not addable", ad.Name)
	}
	return ad.Properties.add(pd)
}

// RemoveProperty removes a PropertyDef by name, refusing if
// CanRemoveProperties is false.
func (ad *AspectDef) RemoveProperty(name string) error {
	if !ad.CanRemoveProperties {
		return fmt.Errorf("aspect def %q: properties are not removable", ad.Name)
	}
	if _, ok := ad.Properties.defs[name]; !ok {
		return fmt.Errorf("aspect def %q: no such property %q", ad.Name, name)
	}
	delete(ad.Properties.defs, name)
	for i, n := range ad.Properties.order {
		if n == name {
			ad.Properties.order = append(ad.Properties.order[:i], ad.Properties.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clone returns a deep copy of ad, safe to mutate independently.
func (ad *AspectDef) Clone() *AspectDef {
	return &AspectDef{
		Name:                ad.Name,
		UUID:                ad.UUID,
		Properties:          ad.Properties.clone(),
		CanAddProperties:    ad.CanAddProperties,
		CanRemoveProperties: ad.CanRemoveProperties,
		Readable:            ad.Readable,
		Writable:            ad.Writable,
	}
}

// HierarchyDef is a definition-time hierarchy declaration known to a
// CatalogDef: name, kind, and whether it can be modified after load
// (spec.md §3 "CatalogDef").
type HierarchyDef struct {
	Name        string
	Kind        HierarchyKind
	Modifiable  bool
}

// CatalogDef is the definition-time schema portion of a Catalog: an
// ordered collection of AspectDefs plus a set of HierarchyDefs known at
// construction time (spec.md §3).
type CatalogDef struct {
	AspectDefs    []*AspectDef
	HierarchyDefs []HierarchyDef
	// Strict controls whether hierarchies outside HierarchyDefs are
	// permitted (spec.md §3). Deprecated no-op on load per Open Question 3
	// (DESIGN.md): still round-tripped through the JSON codec and the
	// catalog table, never consulted by any operation.
	Strict bool
}

// AspectDefByName looks up a definition-time AspectDef by name.
func (cd *CatalogDef) AspectDefByName(name string) (*AspectDef, bool) {
	for _, ad := range cd.AspectDefs {
		if ad.Name == name {
			return ad, true
		}
	}
	return nil, false
}

// HierarchyDefByName looks up a definition-time HierarchyDef by name.
func (cd *CatalogDef) HierarchyDefByName(name string) (HierarchyDef, bool) {
	for _, hd := range cd.HierarchyDefs {
		if hd.Name == name {
			return hd, true
		}
	}
	return HierarchyDef{}, false
}
