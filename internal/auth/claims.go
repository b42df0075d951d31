package auth

import (
	"smartsalle/gym-app/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Claim names expected in tokens issued by the external identity provider.
// The verifier (middleware) checks the signature; this package only
// interprets the already-verified claim set.
const (
	SubjectClaim = "userId"    // hex ObjectID of the user record
	RoleClaim    = "user_role" // single role string or a list of role strings
)

// RoleSet is the set of roles a principal carries for one request.
type RoleSet map[domain.Role]struct{}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(role domain.Role) bool {
	_, ok := s[role]
	return ok
}

// Principal is the authenticated caller's normalized identity for one
// request. It is derived from a verified token, never persisted, and
// immutable once constructed. Fields are unexported so callers cannot
// compare a zero ObjectID by accident: an unresolvable subject must fail
// closed, never match anything.
type Principal struct {
	subjectID  primitive.ObjectID
	hasSubject bool
	roles      RoleSet
}

// NewPrincipal builds a principal directly. Mostly useful in tests; request
// handling goes through PrincipalFromClaims.
func NewPrincipal(subjectID primitive.ObjectID, roles ...domain.Role) Principal {
	p := Principal{subjectID: subjectID, hasSubject: true, roles: RoleSet{}}
	for _, r := range roles {
		p.roles[r] = struct{}{}
	}
	return p
}

// PrincipalFromClaims interprets a verified claim mapping into a Principal.
// It is a pure function of the claims: absent or malformed values produce a
// principal with no subject and/or no roles, never an error. Downstream
// authorization then denies; nothing here may default to an elevated role.
func PrincipalFromClaims(claims jwt.MapClaims) Principal {
	p := Principal{roles: RoleSet{}}

	// Subject: the hex ObjectID of the user record. Anything that is not a
	// parseable hex string leaves the principal without a resolvable
	// subject, so self-scoped operations fail closed.
	if raw, ok := claims[SubjectClaim]; ok {
		if s, ok := raw.(string); ok {
			if oid, err := primitive.ObjectIDFromHex(s); err == nil {
				p.subjectID = oid
				p.hasSubject = true
			}
		}
	}

	for _, s := range decodeRoleClaim(claims[RoleClaim]) {
		if role, ok := domain.ParseRole(s); ok {
			p.roles[role] = struct{}{}
		}
	}

	return p
}

// decodeRoleClaim normalizes the permissively-typed role claim into a list
// of raw role strings. The identity provider may encode a single string, a
// list of strings, or nothing at all; any other shape decodes to nil.
func decodeRoleClaim(v interface{}) []string {
	switch rv := v.(type) {
	case string:
		return []string{rv}
	case []string:
		return rv
	case []interface{}:
		// JSON arrays decode to []interface{}; keep only the string entries.
		out := make([]string, 0, len(rv))
		for _, item := range rv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// SubjectID returns the principal's subject and whether it was resolvable
// from the token.
func (p Principal) SubjectID() (primitive.ObjectID, bool) {
	return p.subjectID, p.hasSubject
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role domain.Role) bool {
	return p.roles.Has(role)
}

// Roles returns the principal's roles as a slice (order unspecified).
func (p Principal) Roles() []domain.Role {
	out := make([]domain.Role, 0, len(p.roles))
	for r := range p.roles {
		out = append(out, r)
	}
	return out
}

// Owns reports whether the principal's resolvable subject matches the given
// resource owner. An unresolvable subject owns nothing.
func (p Principal) Owns(ownerID primitive.ObjectID) bool {
	return p.hasSubject && p.subjectID == ownerID
}
