package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_MissingHandlers(t *testing.T) {
	s := newStubs()

	tests := []struct {
		name    string
		build   func(b *Builder) *Builder
		missing []Role
	}{
		{
			name:    "nothing set",
			build:   func(b *Builder) *Builder { return b },
			missing: []Role{RoleSelect, RoleInsert, RoleUpdate, RoleDelete},
		},
		{
			name: "select missing",
			build: func(b *Builder) *Builder {
				return b.WithInsert(s.ins).WithUpdate(s.upd).WithDelete(s.del)
			},
			missing: []Role{RoleSelect},
		},
		{
			name: "insert missing",
			build: func(b *Builder) *Builder {
				return b.WithSelect(s.sel).WithUpdate(s.upd).WithDelete(s.del)
			},
			missing: []Role{RoleInsert},
		},
		{
			name: "update missing",
			build: func(b *Builder) *Builder {
				return b.WithSelect(s.sel).WithInsert(s.ins).WithDelete(s.del)
			},
			missing: []Role{RoleUpdate},
		},
		{
			name: "update and delete missing",
			build: func(b *Builder) *Builder {
				return b.WithSelect(s.sel).WithInsert(s.ins)
			},
			missing: []Role{RoleUpdate, RoleDelete},
		},
		{
			name: "explicit nil counts as missing",
			build: func(b *Builder) *Builder {
				return b.WithSelect(s.sel).WithInsert(s.ins).WithUpdate(s.upd).WithDelete(nil)
			},
			missing: []Role{RoleDelete},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.build(NewBuilder()).Build()
			assert.Nil(t, r)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingHandler))

			var merr *MissingHandlerError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.missing, merr.Roles)
			for _, role := range tt.missing {
				assert.Contains(t, err.Error(), role.String())
			}
		})
	}
}

func TestBuilder_LastWriteWins(t *testing.T) {
	s := newStubs()
	second := &stubHandler{name: "insert-2"}

	r, err := NewBuilder().
		WithSelect(s.sel).
		WithInsert(s.ins).
		WithInsert(second).
		WithUpdate(s.upd).
		WithDelete(s.del).
		Build()
	require.NoError(t, err)
	assert.Same(t, second, r.Insert())
}

func TestBuilder_BuildIsReusable(t *testing.T) {
	s := newStubs()
	b := NewBuilder().WithSelect(s.sel).WithInsert(s.ins).WithUpdate(s.upd).WithDelete(s.del)

	first, err := b.Build()
	require.NoError(t, err)

	replacement := &stubHandler{name: "select-2"}
	second, err := b.WithSelect(replacement).Build()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Same(t, s.sel, first.Select(), "earlier router must not observe later builder changes")
	assert.Same(t, replacement, second.Select())
}

func TestBuilder_ZeroValueUsable(t *testing.T) {
	s := newStubs()
	var b Builder
	r, err := b.WithSelect(s.sel).WithInsert(s.ins).WithUpdate(s.upd).WithDelete(s.del).Build()
	require.NoError(t, err)
	assert.Same(t, s.del, r.Delete())
}
