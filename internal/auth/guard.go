package auth

import (
	"errors"

	"smartsalle/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrForbidden is the single denial error. Handlers map it to 403 with a
// generic body; the message must not disclose whether the target resource
// exists.
var ErrForbidden = errors.New("access denied: insufficient permissions")

// Requirement is a declarative authorization condition evaluated against a
// principal for one operation.
type Requirement interface {
	allows(p Principal) bool
}

type roleRequirement struct {
	roles []domain.Role
}

func (r roleRequirement) allows(p Principal) bool {
	for _, role := range r.roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// Roles requires a non-empty intersection between the principal's roles and
// the given role set.
func Roles(roles ...domain.Role) Requirement {
	return roleRequirement{roles: roles}
}

type selfOrRoleRequirement struct {
	roles   roleRequirement
	ownerID primitive.ObjectID
}

func (r selfOrRoleRequirement) allows(p Principal) bool {
	// Ownership requires a resolvable subject; Owns returns false otherwise.
	return r.roles.allows(p) || p.Owns(r.ownerID)
}

// RolesOrSelf allows a principal that either holds one of the roles or is
// the owner of the target resource.
func RolesOrSelf(ownerID primitive.ObjectID, roles ...domain.Role) Requirement {
	return selfOrRoleRequirement{roles: roleRequirement{roles: roles}, ownerID: ownerID}
}

type permissionRequirement struct {
	perm Permission
}

func (r permissionRequirement) allows(p Principal) bool {
	return p.Can(r.perm)
}

// Permitted requires the permission table to grant perm to one of the
// principal's roles.
func Permitted(perm Permission) Requirement {
	return permissionRequirement{perm: perm}
}

// Authorize evaluates the requirement and returns ErrForbidden on denial.
// Denial is terminal: callers surface it as an access-control failure and
// never fall through to a default-allow.
func Authorize(p Principal, req Requirement) error {
	if !req.allows(p) {
		return ErrForbidden
	}
	return nil
}
