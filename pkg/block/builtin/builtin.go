// Package builtin ships the compiler's fixed catalog of computer-vision
// block descriptors. Each descriptor self-registers via init(), but
// RegisterAll takes an explicit *block.Registry rather than writing to a
// package-level global: registries are owned and sealed by the caller, so
// a process hosting multiple independently-configured compilers never
// shares hidden state between them.
package builtin

import "github.com/vflowhq/workflow-engine/pkg/block"

var constructors []func() block.Descriptor

func register(ctor func() block.Descriptor) {
	constructors = append(constructors, ctor)
}

// RegisterAll registers every builtin block descriptor on registry. Callers
// that only need a subset of the catalog can register the individual
// New*Descriptor constructors directly instead.
func RegisterAll(registry *block.Registry) {
	for _, ctor := range constructors {
		registry.Register(ctor())
	}
}
