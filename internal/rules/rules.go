// Package rules contains the concrete Python rule implementations (B001,
// B002, B003, L001, L002, L003, N001). Each rule file registers its
// descriptor in its own init(), appending to a package-level slice; callers
// never touch that slice directly; instead they call NewRegistry to obtain
// one explicit registry.Registry value, consistent with the registry
// package's "no hidden singleton" design: the init-time slice is a
// collection point for this package's own descriptors, not the process-wide
// mutable registry a scan actually runs against.
package rules

import "github.com/anchorlint/anchorlint/internal/registry"

var descriptors []registry.Descriptor

// Register appends d to this package's descriptor set. Called only from
// each rule file's init().
func Register(d registry.Descriptor) {
	descriptors = append(descriptors, d)
}

// NewRegistry builds a fresh registry.Registry containing every rule this
// package defines, in the order their files were compiled (Go guarantees
// init() runs in per-file alphabetical order within a package).
func NewRegistry() *registry.Registry {
	r := registry.New()
	for _, d := range descriptors {
		r.Register(d)
	}
	return r
}
