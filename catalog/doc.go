// Package catalog holds the frozen, ordered set of operator descriptors a
// dispatcher can route events into.
//
// Each Descriptor pairs a unique name and display label with a Spec. Spec is
// a closed set of per-kind configuration structs, so consumers handle every
// operator kind with an exhaustive type switch:
//
//	switch s := d.Spec.(type) {
//	case catalog.MapSpec:
//	    ...
//	case catalog.DelaySpec:
//	    ...
//	}
//
// A Catalog rejects duplicate names at construction and exposes no mutation.
package catalog
