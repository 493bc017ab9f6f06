// Package identity maps wallet addresses to roles using allow-lists.
//
// The admin set is fixed for the process lifetime. The teacher set grows at
// runtime through admin-gated additions and is never shrunk within a session.
// Any other connected address is a student; an absent address has no role.
package identity

import (
	"sync"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Registry owns the role allow-lists. It is injected into the services that
// need role resolution so tests get isolated instances instead of ambient
// package state.
type Registry struct {
	mu       sync.RWMutex
	admins   map[domain.Address]struct{}
	teachers map[domain.Address]struct{}
}

// NewRegistry builds a registry seeded with the given allow-lists.
// Addresses are normalized before membership checks.
func NewRegistry(admins, teachers []domain.Address) *Registry {
	r := &Registry{
		admins:   make(map[domain.Address]struct{}, len(admins)),
		teachers: make(map[domain.Address]struct{}, len(teachers)),
	}
	for _, a := range admins {
		r.admins[domain.ParseAddress(a.String())] = struct{}{}
	}
	for _, t := range teachers {
		r.teachers[domain.ParseAddress(t.String())] = struct{}{}
	}
	return r
}

// ResolveRole returns the single role for an address. Precedence is
// admin > teacher > student; a connected address outside both allow-lists is
// a student, a zero address has no role. It never fails: absence of
// membership is the student default, not an error.
func (r *Registry) ResolveRole(addr domain.Address) Role {
	addr = domain.ParseAddress(addr.String())
	if addr.IsNil() {
		return RoleNone
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.admins[addr]; ok {
		return RoleAdmin
	}
	if _, ok := r.teachers[addr]; ok {
		return RoleTeacher
	}
	return RoleStudent
}

// AddTeacher appends an address to the teacher allow-list. Adding an existing
// teacher (or an admin, which already outranks teacher) is a conflict so the
// caller can report the duplicate instead of silently succeeding.
func (r *Registry) AddTeacher(addr domain.Address) error {
	addr = domain.ParseAddress(addr.String())
	if addr.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "teacher address cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[addr]; ok {
		return dErrors.New(dErrors.CodeConflict, "address already holds the admin role")
	}
	if _, ok := r.teachers[addr]; ok {
		return dErrors.New(dErrors.CodeConflict, "address is already a teacher")
	}
	r.teachers[addr] = struct{}{}
	return nil
}

// Teachers returns a snapshot of the teacher allow-list.
func (r *Registry) Teachers() []domain.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Address, 0, len(r.teachers))
	for t := range r.teachers {
		out = append(out, t)
	}
	return out
}

// TeacherCount reports the current size of the teacher allow-list.
func (r *Registry) TeacherCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.teachers)
}
