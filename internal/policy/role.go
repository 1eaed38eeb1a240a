// internal/policy/role.go
package policy

import "strings"

// Role is the canonical role enum. Raw role strings coming from tokens or
// legacy clients must go through ParseRole before any rule lookup.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleAgencyAdmin Role = "AGENCY_ADMIN"
	RoleTeamLeader  Role = "TEAM_LEADER"
	RoleStaff       Role = "STAFF"
	RoleClient      Role = "CLIENT"

	// RoleUnknown marks a role string nothing could normalize. Visibility for
	// unknown roles falls back to the creator-company rule instead of crashing.
	RoleUnknown Role = ""
)

// roleAliases maps every legacy spelling still in circulation to the canonical
// role. The Korean display names are what the old frontend stored verbatim.
var roleAliases = map[string]Role{
	"super_admin":  RoleSuperAdmin,
	"agency_admin": RoleAgencyAdmin,
	"team_leader":  RoleTeamLeader,
	"agency_staff": RoleStaff,
	"staff":        RoleStaff,
	"client":       RoleClient,

	"슈퍼 어드민":  RoleSuperAdmin,
	"슈퍼어드민":   RoleSuperAdmin,
	"대행사 어드민": RoleAgencyAdmin,
	"대행사어드민":  RoleAgencyAdmin,
	"팀장":       RoleTeamLeader,
	"직원":       RoleStaff,
	"클라이언트":   RoleClient,
}

// ParseRole normalizes a raw role string. Exact alias matches win; after that
// a permissive substring fallback catches the free-form admin strings the
// legacy data still contains ("Agency Admin", "대행사 어드민 (서울)", ...).
func ParseRole(raw string) Role {
	s := strings.TrimSpace(raw)
	if r, ok := roleAliases[s]; ok {
		return r
	}
	lower := strings.ToLower(s)
	if r, ok := roleAliases[lower]; ok {
		return r
	}

	if strings.Contains(lower, "super") && strings.Contains(lower, "admin") {
		return RoleSuperAdmin
	}
	if strings.Contains(lower, "agency") && strings.Contains(lower, "admin") {
		return RoleAgencyAdmin
	}
	if strings.Contains(s, "슈퍼") {
		return RoleSuperAdmin
	}
	if strings.Contains(s, "대행사") && strings.Contains(s, "어드민") {
		return RoleAgencyAdmin
	}

	return RoleUnknown
}

// IsAgencyAdmin reports whether the raw role string normalizes to
// AGENCY_ADMIN, including the substring fallback. Creator reassignment keys
// off this rather than the enum so the legacy permissiveness survives.
func IsAgencyAdmin(raw string) bool {
	return ParseRole(raw) == RoleAgencyAdmin
}
