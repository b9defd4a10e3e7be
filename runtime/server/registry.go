package server

import (
	"sync"

	"erpc/runtime/codec"
	"erpc/runtime/status"
)

// Dispatcher decodes a function's arguments, invokes the user-supplied
// implementation, and encodes its return path. It is generated per
// function by idl/codegen; Service.Functions is the switch-on-function_id
// spec.md §4.10 describes, expressed as a map rather than a literal
// switch statement.
type Dispatcher func(args *codec.Codec, reply *codec.Codec) status.Status

// Service is a runtime object mapping (service_id, function_id) pairs to
// handlers, per spec.md §4.10.
type Service struct {
	ID        uint32
	Functions map[uint32]Dispatcher
}

// Registry holds the set of services a server dispatches to. Services
// are immutable after Register, per spec.md §5's shared-resource policy;
// Register is expected to happen during setup, before Serve is called.
type Registry struct {
	mu       sync.RWMutex
	services map[uint32]*Service
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[uint32]*Service)}
}

// Register adds svc, replacing any previous registration under the same ID.
func (r *Registry) Register(svc *Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[svc.ID] = svc
}

// lookup returns the function dispatcher for a (service_id, function_id)
// pair, or an UnknownService or UnknownFunction status if either is
// missing.
func (r *Registry) lookup(serviceID, functionID uint32) (Dispatcher, status.Status) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[serviceID]
	if !ok {
		return nil, status.New(status.UnknownService, "service %d not registered", serviceID)
	}
	fn, ok := svc.Functions[functionID]
	if !ok {
		return nil, status.New(status.UnknownFunction, "function %d not found in service %d", functionID, serviceID)
	}
	return fn, status.Ok
}
