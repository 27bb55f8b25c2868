// Package properties implements the named, typed, trait-carrying value
// slots that every transaction and account builder in this module is
// configured through (spec.md §4.4). It is grounded on
// multy_transaction/internal/properties.h's Property/Properties/Binder
// trio and multy_transaction/src/properties.cpp's set/reset/validate/
// specification C-ABI, reshaped around Go generics instead of C++
// templates and virtual dispatch: a Property[T] is the typed slot client
// code binds and reads directly, a Binder is the type-erased handle the
// registry uses for name-based set/reset/validate/specification.
package properties

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledgerflow/walletcore/walleterr"
)

// Trait controls whether Validate requires a property to have been set,
// and whether client code may set it at all.
type Trait int

const (
	// Required properties must be set before Validate succeeds.
	Required Trait = iota
	// Optional properties may be left unset.
	Optional
	// ReadOnly properties are set once by the owning component and
	// rejected if client code tries to set them again.
	ReadOnly
)

func (t Trait) String() string {
	switch t {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case ReadOnly:
		return "readonly"
	default:
		return "unknown"
	}
}

// Binder is the type-erased handle to a bound Property[T], used by
// Properties for name-based operations (set, reset, validate,
// specification) where the concrete T is not known to the caller — the
// role multy_transaction/internal/properties.h's Binder interface plays.
type Binder interface {
	Name() string
	Kind() string
	Trait() Trait
	IsSet() bool
	Reset()
	Spec() string
	SetAny(value any) error
}

// Property is a named, optionally-predicated value slot of type T.
type Property[T any] struct {
	name      string
	kind      string
	trait     Trait
	predicate func(T) error
	value     T
	isSet     bool
}

func newProperty[T any](name, kind string, trait Trait, predicate func(T) error) *Property[T] {
	return &Property[T]{name: name, kind: kind, trait: trait, predicate: predicate}
}

// Name returns the property's bound name.
func (p *Property[T]) Name() string { return p.name }

// Kind names the property's value type, e.g. "int32", "BigInt".
func (p *Property[T]) Kind() string { return p.kind }

// Trait returns the property's required/optional/readonly trait.
func (p *Property[T]) Trait() Trait { return p.trait }

// IsSet reports whether the property has been explicitly set.
func (p *Property[T]) IsSet() bool { return p.isSet }

// Reset clears the property back to its zero value and unset state.
func (p *Property[T]) Reset() {
	var zero T
	p.value = zero
	p.isSet = false
}

// Spec renders a one-line human-readable description, the line
// properties_get_specification concatenates across every bound property.
func (p *Property[T]) Spec() string {
	return fmt.Sprintf("%s: %s (%s)", p.name, p.kind, p.trait)
}

// Get returns the current value, failing if it has never been set.
func (p *Property[T]) Get() (T, error) {
	if !p.isSet {
		var zero T
		return zero, walleterr.New(walleterr.NotSet, "Property.Get", p.name+" is not set")
	}
	return p.value, nil
}

// GetOrDefault returns the current value, or defaultValue if unset —
// mirroring PropertyT::get_default_value.
func (p *Property[T]) GetOrDefault(defaultValue T) T {
	if !p.isSet {
		return defaultValue
	}
	return p.value
}

// Set assigns a new value, running the bound predicate (if any) and
// rejecting the write outright for a ReadOnly property that has already
// been set once.
func (p *Property[T]) Set(value T) error {
	if p.trait == ReadOnly && p.isSet {
		return walleterr.New(walleterr.InvalidArgument, "Property.Set", p.name+" is read-only and already set")
	}
	if p.predicate != nil {
		if err := p.predicate(value); err != nil {
			return walleterr.Wrap(walleterr.InvalidArgument, "Property.Set", p.name+" rejected by predicate", err)
		}
	}
	p.value = value
	p.isSet = true
	return nil
}

// SetAny implements Binder by type-asserting value to T before delegating
// to Set — the path the JSON front door and the C-ABI-style setters use,
// where the caller only has an untyped value in hand.
func (p *Property[T]) SetAny(value any) error {
	v, ok := value.(T)
	if !ok {
		return walleterr.New(walleterr.TypeMismatch, "Property.SetAny", fmt.Sprintf("%s expects a %s value", p.name, p.kind))
	}
	return p.Set(v)
}

// Properties is a named collection of bound properties, the registry a
// transaction or account builder constructs over its own fields.
type Properties struct {
	name   string
	order  []string
	byName map[string]Binder
}

// New returns an empty, named property registry.
func New(name string) *Properties {
	return &Properties{name: name, byName: make(map[string]Binder)}
}

// Name returns the registry's own name (e.g. "BitcoinTransaction").
func (p *Properties) Name() string { return p.name }

func (p *Properties) register(b Binder) {
	name := b.Name()
	if _, exists := p.byName[name]; exists {
		panic("properties: duplicate bind of " + name + " on " + p.name)
	}
	p.byName[name] = b
	p.order = append(p.order, name)
}

// Bind creates and registers a new typed property. It is a free function
// rather than a method because Go methods cannot carry their own type
// parameters.
func Bind[T any](p *Properties, name, kind string, trait Trait, predicate func(T) error) *Property[T] {
	prop := newProperty[T](name, kind, trait, predicate)
	p.register(prop)
	return prop
}

// Unbind removes a property by name, reporting whether it had been bound.
func (p *Properties) Unbind(name string) bool {
	if _, ok := p.byName[name]; !ok {
		return false
	}
	delete(p.byName, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

func (p *Properties) get(name string) (Binder, error) {
	b, ok := p.byName[name]
	if !ok {
		return nil, walleterr.New(walleterr.InvalidArgument, "Properties.get", "no such property: "+name)
	}
	return b, nil
}

// SetProperty sets a bound property by name to an untyped value.
func (p *Properties) SetProperty(name string, value any) error {
	b, err := p.get(name)
	if err != nil {
		return err
	}
	return b.SetAny(value)
}

// ResetProperty clears a bound property by name.
func (p *Properties) ResetProperty(name string) error {
	b, err := p.get(name)
	if err != nil {
		return err
	}
	b.Reset()
	return nil
}

// Kind returns the named property's value-kind label (e.g. "int32",
// "BigInt"), the detail the JSON front door needs to decode a raw JSON
// value before calling SetProperty.
func (p *Properties) Kind(name string) (string, error) {
	b, err := p.get(name)
	if err != nil {
		return "", err
	}
	return b.Kind(), nil
}

// IsSet reports whether the named property has been explicitly set.
func (p *Properties) IsSet(name string) (bool, error) {
	b, err := p.get(name)
	if err != nil {
		return false, err
	}
	return b.IsSet(), nil
}

// Validate checks that every Required property has been set, mirroring
// properties_validate's "N properties not set: a, b, c" report.
func (p *Properties) Validate() error {
	var missing []string
	for _, name := range p.order {
		b := p.byName[name]
		if b.Trait() == Required && !b.IsSet() {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return walleterr.New(walleterr.General, "Properties.Validate",
		fmt.Sprintf("%d properties not set: %s", len(missing), strings.Join(missing, ", ")))
}

// Specification renders every bound property's Spec line, one per line,
// in bind order — the text properties_get_specification returns.
func (p *Properties) Specification() string {
	lines := make([]string, 0, len(p.order))
	for _, name := range p.order {
		lines = append(lines, p.byName[name].Spec())
	}
	return strings.Join(lines, "\n")
}

// Names returns every bound property's name, sorted, for introspection
// that doesn't care about bind order.
func (p *Properties) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
