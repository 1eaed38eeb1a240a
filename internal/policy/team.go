// internal/policy/team.go
package policy

import "github.com/adstation/campaign-backend/internal/model"

// Directory is the slice of the user store the engine needs: team membership
// and company lookups. Implementations must apply the company equality clause
// themselves so a team_leader_id pointing across companies never leaks a row.
type Directory interface {
	// TeamMemberIDs returns ids of users with the given company and
	// team_leader_id. Both conditions are mandatory.
	TeamMemberIDs(company string, leaderID int) ([]int, error)

	// UserCompany returns the company of a user, or "" when the user does not
	// exist.
	UserCompany(userID int) (string, error)
}

// ResolveTeamMemberIDs returns the direct reports of a TEAM_LEADER within
// their own company. Any other role gets an empty set without error. The
// result is computed fresh on every call; team membership changes between
// requests and must never be served from a cache.
func ResolveTeamMemberIDs(dir Directory, u *model.User) ([]int, error) {
	if ParseRole(u.Role) != RoleTeamLeader {
		return nil, nil
	}
	return dir.TeamMemberIDs(u.Company, u.ID)
}
