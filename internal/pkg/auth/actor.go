package auth

import "github.com/google/uuid"

// Actor is the authenticated caller on whose behalf an operation runs.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// System returns the actor used for work triggered by internal consumers.
func System() Actor {
	return Actor{ID: uuid.Nil, Role: RoleAdmin}
}

// IsOwnerScoped reports whether the actor may only touch properties it owns.
func (a Actor) IsOwnerScoped() bool {
	return a.Role == RoleOwner
}
