package router

// Builder collects the four handlers of a Router. The zero value is ready to
// use. A Builder is not safe for concurrent use.
//
// Build may be called any number of times: each call snapshots the handlers
// set so far into a new Router and leaves the Builder unchanged, so later
// With calls never affect Routers already built.
type Builder struct {
	sel SelectHandler
	ins InsertHandler
	upd UpdateHandler
	del DeleteHandler
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithSelect sets the select handler, replacing any previous one.
func (b *Builder) WithSelect(h SelectHandler) *Builder {
	b.sel = h
	return b
}

// WithInsert sets the insert handler, replacing any previous one.
func (b *Builder) WithInsert(h InsertHandler) *Builder {
	b.ins = h
	return b
}

// WithUpdate sets the update handler, replacing any previous one.
func (b *Builder) WithUpdate(h UpdateHandler) *Builder {
	b.upd = h
	return b
}

// WithDelete sets the delete handler, replacing any previous one.
func (b *Builder) WithDelete(h DeleteHandler) *Builder {
	b.del = h
	return b
}

// Build returns a Router holding the configured handlers. It returns a
// *MissingHandlerError naming every unset role if any handler is nil.
func (b *Builder) Build() (*Router, error) {
	var missing []Role
	for _, role := range roles {
		if !b.isSet(role) {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingHandlerError{Roles: missing}
	}
	return &Router{sel: b.sel, ins: b.ins, upd: b.upd, del: b.del}, nil
}

func (b *Builder) isSet(role Role) bool {
	switch role {
	case RoleSelect:
		return b.sel != nil
	case RoleInsert:
		return b.ins != nil
	case RoleUpdate:
		return b.upd != nil
	default:
		return b.del != nil
	}
}
