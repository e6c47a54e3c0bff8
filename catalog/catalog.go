package catalog

import (
	"github.com/kbukum/opgate/errors"
)

// Descriptor names one operator and carries its configuration.
type Descriptor struct {
	// Name is the unique identifier used for selection and routing.
	Name string `json:"name"`
	// Label is the display form shown next to the selector, e.g. "take(number)".
	Label string `json:"label"`
	// Spec configures the operator's behavior.
	Spec Spec `json:"-"`
}

// Kind is a shorthand for d.Spec.Kind().
func (d Descriptor) Kind() Kind { return d.Spec.Kind() }

// Mode is a shorthand for d.Spec.Mode().
func (d Descriptor) Mode() Mode { return d.Spec.Mode() }

// Catalog is an immutable, ordered set of descriptors with unique names.
type Catalog struct {
	entries []Descriptor
	index   map[string]int
}

// New builds a catalog in the given order. It fails with DUPLICATE_OPERATOR_NAME
// when two descriptors share a name and INVALID_INPUT for an empty name or
// missing spec.
func New(descriptors ...Descriptor) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Descriptor, 0, len(descriptors)),
		index:   make(map[string]int, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, errors.InvalidInput("name", "operator name must not be empty")
		}
		if d.Spec == nil {
			return nil, errors.InvalidInput("spec", "operator "+d.Name+" has no spec")
		}
		if _, dup := c.index[d.Name]; dup {
			return nil, errors.DuplicateOperatorName(d.Name)
		}
		if d.Label == "" {
			d.Label = d.Name
		}
		c.index[d.Name] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	return c, nil
}

// Describe returns the descriptor registered under name.
func (c *Catalog) Describe(name string) (Descriptor, error) {
	i, ok := c.index[name]
	if !ok {
		return Descriptor{}, errors.UnknownOperator(name)
	}
	return c.entries[i], nil
}

// Contains reports whether name is registered.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// All returns the descriptors in catalog order. The slice is a copy.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns the operator names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, d := range c.entries {
		out[i] = d.Name
	}
	return out
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int { return len(c.entries) }

// First returns the first descriptor, or false for an empty catalog.
func (c *Catalog) First() (Descriptor, bool) {
	if len(c.entries) == 0 {
		return Descriptor{}, false
	}
	return c.entries[0], true
}
