package auth

import (
	"smartsalle/gym-app/internal/domain"
)

// Permission names one guarded operation family.
type Permission string

const (
	PermMembersRead     Permission = "members:read"
	PermMembersManage   Permission = "members:manage"
	PermEventsRead      Permission = "events:read"
	PermEventsManage    Permission = "events:manage"
	PermEventsDelete    Permission = "events:delete"
	PermEventRegister   Permission = "events:register" // self-registration to an event
	PermAttendanceMark  Permission = "attendance:mark" // check-in / check-out
	PermAttendanceRead  Permission = "attendance:read" // listings and stats
	PermCoachesManage   Permission = "coaches:manage"
	PermGymsManage      Permission = "gyms:manage"
	PermMembershipsLink Permission = "memberships:link"
	PermPaymentsManage  Permission = "payments:manage"
)

// rolePermissions is the static role → permission-set table. Changing what a
// role may do is a change here, not a runtime decision. ADMIN is expanded
// explicitly rather than special-cased so the table reads as the single
// source of truth.
var rolePermissions = map[domain.Role][]Permission{
	domain.RoleAdmin: {
		PermMembersRead, PermMembersManage,
		PermEventsRead, PermEventsManage, PermEventsDelete,
		PermAttendanceMark, PermAttendanceRead,
		PermCoachesManage, PermGymsManage,
		PermMembershipsLink, PermPaymentsManage,
	},
	domain.RoleTrainer: {
		PermMembersRead,
		PermEventsRead, PermEventsManage,
		PermAttendanceMark, PermAttendanceRead,
	},
	domain.RoleClient: {
		PermEventsRead, PermEventRegister,
		PermAttendanceMark, // for themselves; ownership is checked by the guard
	},
}

// Can reports whether any of the principal's roles grants the permission.
// A principal with no roles can do nothing.
func (p Principal) Can(perm Permission) bool {
	for role := range p.roles {
		for _, granted := range rolePermissions[role] {
			if granted == perm {
				return true
			}
		}
	}
	return false
}
