package auth

import (
	"testing"

	"smartsalle/gym-app/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPrincipalFromClaimsSubject(t *testing.T) {
	t.Run("resolves a hex object id", func(t *testing.T) {
		userID := primitive.NewObjectID()
		p := PrincipalFromClaims(jwt.MapClaims{SubjectClaim: userID.Hex()})

		subject, ok := p.SubjectID()
		require.True(t, ok)
		assert.Equal(t, userID, subject)
	})

	t.Run("missing claim leaves the subject unresolvable", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{})
		_, ok := p.SubjectID()
		assert.False(t, ok)
	})

	t.Run("malformed id leaves the subject unresolvable", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{SubjectClaim: "not-a-hex-id"})
		_, ok := p.SubjectID()
		assert.False(t, ok)
	})

	t.Run("non-string subject leaves the subject unresolvable", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{SubjectClaim: 12345})
		_, ok := p.SubjectID()
		assert.False(t, ok)
	})
}

func TestPrincipalFromClaimsRoles(t *testing.T) {
	t.Run("single role string", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{RoleClaim: "admin"})
		assert.True(t, p.HasRole(domain.RoleAdmin))
		assert.False(t, p.HasRole(domain.RoleTrainer))
		assert.False(t, p.HasRole(domain.RoleClient))
	})

	t.Run("list of roles as a JSON array", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{RoleClaim: []interface{}{"trainer", "client"}})
		assert.True(t, p.HasRole(domain.RoleTrainer))
		assert.True(t, p.HasRole(domain.RoleClient))
		assert.False(t, p.HasRole(domain.RoleAdmin))
	})

	t.Run("list of roles as a string slice", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{RoleClaim: []string{"ADMIN", "TRAINER"}})
		assert.True(t, p.HasRole(domain.RoleAdmin))
		assert.True(t, p.HasRole(domain.RoleTrainer))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{RoleClaim: "Client"})
		assert.True(t, p.HasRole(domain.RoleClient))
	})

	t.Run("missing claim yields an empty role set", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{})
		assert.Empty(t, p.Roles())
	})

	t.Run("unknown role strings are dropped", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{RoleClaim: []interface{}{"superuser", "client"}})
		assert.True(t, p.HasRole(domain.RoleClient))
		assert.Len(t, p.Roles(), 1)
	})

	t.Run("non-string shapes decode to no roles", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{RoleClaim: 42})
		assert.Empty(t, p.Roles())
	})

	t.Run("mixed array keeps only string entries", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{RoleClaim: []interface{}{"trainer", 7, nil}})
		assert.True(t, p.HasRole(domain.RoleTrainer))
		assert.Len(t, p.Roles(), 1)
	})
}

func TestPrincipalOwns(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("matches the resolvable subject", func(t *testing.T) {
		p := NewPrincipal(userID, domain.RoleClient)
		assert.True(t, p.Owns(userID))
		assert.False(t, p.Owns(primitive.NewObjectID()))
	})

	t.Run("unresolvable subject owns nothing", func(t *testing.T) {
		p := PrincipalFromClaims(jwt.MapClaims{RoleClaim: "client"})
		// In particular it must not own a zero-valued owner id.
		assert.False(t, p.Owns(primitive.NilObjectID))
		assert.False(t, p.Owns(userID))
	})
}
