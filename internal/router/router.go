package router

import "github.com/mesh-intelligence/statements/pkg/types"

// Router holds one handler per statement class and routes operations to them.
// A Router returned by Builder.Build always has all four handlers set and is
// never modified afterwards. The Router does not own the handlers: it never
// closes or mutates them.
type Router struct {
	sel SelectHandler
	ins InsertHandler
	upd UpdateHandler
	del DeleteHandler
}

// Select returns the handler for Get and Scan.
func (r *Router) Select() SelectHandler { return r.sel }

// Insert returns the handler for unconditioned Puts.
func (r *Router) Insert() InsertHandler { return r.ins }

// Update returns the handler for Puts guarded by PutIf or PutIfExists.
func (r *Router) Update() UpdateHandler { return r.upd }

// Delete returns the handler for Deletes.
func (r *Router) Delete() DeleteHandler { return r.del }

// Route returns the handler responsible for op. It returns an
// *UnclassifiableOperationError when op is nil or not a known variant.
func (r *Router) Route(op types.Operation) (Handler, error) {
	role, err := Classify(op)
	if err != nil {
		return nil, err
	}
	return r.handler(role), nil
}

// handler returns the stored handler for role.
func (r *Router) handler(role Role) Handler {
	switch role {
	case RoleSelect:
		return r.sel
	case RoleInsert:
		return r.ins
	case RoleUpdate:
		return r.upd
	default:
		return r.del
	}
}

// Classify returns the role that handles op. Classification depends only on
// the operation variant and, for Put, on the kind of its condition.
//
// A Put whose condition is neither PutIf nor PutIfExists classifies as an
// insert. That covers PutIfNotExists and a nil condition; it is also where any
// condition kind added later lands unless it is listed here.
func Classify(op types.Operation) (Role, error) {
	switch o := op.(type) {
	case *types.Get:
		if o != nil {
			return RoleSelect, nil
		}
	case *types.Scan:
		if o != nil {
			return RoleSelect, nil
		}
	case *types.Put:
		if o != nil {
			return classifyPut(o), nil
		}
	case *types.Delete:
		if o != nil {
			return RoleDelete, nil
		}
	}
	return 0, &UnclassifiableOperationError{Operation: op}
}

func classifyPut(put *types.Put) Role {
	switch put.Condition.(type) {
	case types.PutIf, *types.PutIf, types.PutIfExists, *types.PutIfExists:
		return RoleUpdate
	default:
		return RoleInsert
	}
}
