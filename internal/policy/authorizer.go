// internal/policy/authorizer.go
package policy

import "github.com/adstation/campaign-backend/internal/model"

// Action is an operation on a campaign subject to authorization.
type Action string

const (
	ActionView      Action = "view"
	ActionEdit      Action = "edit"
	ActionDelete    Action = "delete"
	ActionDuplicate Action = "duplicate"
)

// Reason is the machine-readable cause attached to a denial. Callers map it
// to an accurate 403 message instead of a generic one.
type Reason string

const (
	ReasonNone             Reason = ""
	DeniedDifferentCompany Reason = "DENIED_DIFFERENT_COMPANY"
	DeniedNotOwner         Reason = "DENIED_NOT_OWNER"
	DeniedRole             Reason = "DENIED_ROLE"
	DeniedNoCompany        Reason = "DENIED_NO_COMPANY"
)

// Decision is the result of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Allowed: false, Reason: r} }

// Engine is the authorization and cascade-planning engine. It is stateless
// across calls; team membership and company lookups go through the Directory
// on every evaluation so decisions never go stale.
type Engine struct {
	dir  Directory
	deps Dependents
}

func NewEngine(dir Directory, deps Dependents) *Engine {
	return &Engine{dir: dir, deps: deps}
}

// evalCtx resolves Directory lookups lazily and at most once per decision.
type evalCtx struct {
	eng  *Engine
	user *model.User
	c    *model.Campaign

	team         []int
	teamLoaded   bool
	creatorCo    string
	creatorCoSet bool
	staffCo      string
	staffCoSet   bool
	err          error
}

// fail records a lookup failure. The first error wins; a later successful
// lookup must not clear it, the whole decision is void either way.
func (x *evalCtx) fail(err error) {
	if x.err == nil {
		x.err = err
	}
}

func (x *evalCtx) teamIDs() []int {
	if !x.teamLoaded {
		var err error
		x.team, err = x.eng.dir.TeamMemberIDs(x.user.Company, x.user.ID)
		x.fail(err)
		x.teamLoaded = true
	}
	return x.team
}

func (x *evalCtx) creatorCompany() string {
	if !x.creatorCoSet {
		var err error
		x.creatorCo, err = x.eng.dir.UserCompany(x.c.CreatorID)
		x.fail(err)
		x.creatorCoSet = true
	}
	return x.creatorCo
}

func (x *evalCtx) staffCompany() string {
	if !x.staffCoSet {
		if x.c.StaffID != nil {
			var err error
			x.staffCo, err = x.eng.dir.UserCompany(*x.c.StaffID)
			x.fail(err)
		}
		x.staffCoSet = true
	}
	return x.staffCo
}

func (x *evalCtx) isCreator() bool { return x.c.CreatorID == x.user.ID }

func (x *evalCtx) isAssignedStaff() bool {
	return x.c.StaffID != nil && *x.c.StaffID == x.user.ID
}

func (x *evalCtx) isClient() bool {
	return x.c.ClientUserID != nil && *x.c.ClientUserID == x.user.ID
}

func (x *evalCtx) selfOrTeamOwns() bool {
	if x.isCreator() || x.isAssignedStaff() {
		return true
	}
	for _, id := range x.teamIDs() {
		if x.c.CreatorID == id {
			return true
		}
		if x.c.StaffID != nil && *x.c.StaffID == id {
			return true
		}
	}
	return false
}

type rule func(x *evalCtx) Decision

// ruleTable is the single source of truth for (action, role) authorization.
// Each cell is intentionally independent: the per-action asymmetries below
// (agency delete lacking edit's staff carve-out, client's company-wide delete
// grant, duplicate being closed to team leaders and clients) reproduce the
// behavior of the endpoints this table replaced. Whether those asymmetries
// are intentional is an open question; do not harmonize them here without a
// product decision.
var ruleTable = map[Action]map[Role]rule{
	ActionView: {
		RoleSuperAdmin: func(x *evalCtx) Decision { return allow() },
		RoleAgencyAdmin: func(x *evalCtx) Decision {
			if x.user.Company == "" {
				return deny(DeniedNoCompany)
			}
			if x.c.Company == x.user.Company || x.isCreator() || x.isAssignedStaff() {
				return allow()
			}
			return deny(DeniedDifferentCompany)
		},
		RoleClient: func(x *evalCtx) Decision {
			if x.isClient() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
		RoleTeamLeader: func(x *evalCtx) Decision {
			if x.selfOrTeamOwns() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
		RoleStaff: func(x *evalCtx) Decision {
			if x.isCreator() || x.isAssignedStaff() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
	},
	ActionEdit: {
		RoleSuperAdmin: func(x *evalCtx) Decision { return allow() },
		RoleAgencyAdmin: func(x *evalCtx) Decision {
			if x.user.Company == "" {
				return deny(DeniedNoCompany)
			}
			if x.creatorCompany() == x.user.Company {
				return allow()
			}
			if x.c.StaffID != nil && x.staffCompany() == x.user.Company {
				return allow()
			}
			// Broader than view: any campaign with a client attached is
			// editable by an agency admin.
			if x.c.ClientUserID != nil {
				return allow()
			}
			return deny(DeniedDifferentCompany)
		},
		RoleClient: func(x *evalCtx) Decision {
			// creator_id grant is the legacy case where clients created their
			// own campaigns.
			if x.isCreator() || x.isClient() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
		RoleTeamLeader: func(x *evalCtx) Decision {
			if x.selfOrTeamOwns() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
		RoleStaff: func(x *evalCtx) Decision {
			if x.isCreator() || x.isAssignedStaff() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
	},
	ActionDelete: {
		RoleSuperAdmin: func(x *evalCtx) Decision { return allow() },
		RoleAgencyAdmin: func(x *evalCtx) Decision {
			if x.user.Company == "" {
				return deny(DeniedNoCompany)
			}
			if x.creatorCompany() == x.user.Company {
				return allow()
			}
			// No blanket assigned-staff grant here (unlike edit): the admin
			// must be the assigned staff themselves and still pass the
			// staff-company re-check.
			if x.isAssignedStaff() && x.staffCompany() == x.user.Company {
				return allow()
			}
			return deny(DeniedDifferentCompany)
		},
		RoleClient: func(x *evalCtx) Decision {
			if x.user.Company == "" {
				return deny(DeniedNoCompany)
			}
			// Company-wide grant, wider than edit's per-user rule.
			if x.creatorCompany() == x.user.Company {
				return allow()
			}
			return deny(DeniedDifferentCompany)
		},
		RoleTeamLeader: func(x *evalCtx) Decision {
			if x.selfOrTeamOwns() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
		RoleStaff: func(x *evalCtx) Decision {
			if x.isCreator() || x.isAssignedStaff() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
	},
	ActionDuplicate: {
		RoleSuperAdmin: func(x *evalCtx) Decision { return allow() },
		RoleAgencyAdmin: func(x *evalCtx) Decision {
			if x.user.Company == "" {
				return deny(DeniedNoCompany)
			}
			if x.c.Company == x.user.Company {
				return allow()
			}
			return deny(DeniedDifferentCompany)
		},
		RoleStaff: func(x *evalCtx) Decision {
			if x.isCreator() || x.isAssignedStaff() {
				return allow()
			}
			return deny(DeniedNotOwner)
		},
		RoleTeamLeader: func(x *evalCtx) Decision { return deny(DeniedRole) },
		RoleClient:     func(x *evalCtx) Decision { return deny(DeniedRole) },
	},
}

// Authorize decides whether the user may perform the action on the campaign.
// Identical inputs always produce identical decisions; the only I/O is the
// read-only Directory lookups.
func (e *Engine) Authorize(u *model.User, action Action, c *model.Campaign) (Decision, error) {
	byRole, ok := ruleTable[action]
	if !ok {
		return deny(DeniedRole), nil
	}

	x := &evalCtx{eng: e, user: u, c: c}
	role := ParseRole(u.Role)

	r, ok := byRole[role]
	if !ok {
		return e.authorizeFallback(x, action)
	}
	d := r(x)
	if x.err != nil {
		return deny(DeniedRole), x.err
	}
	return d, nil
}

// authorizeFallback handles roles the table does not enumerate. Viewing falls
// back to the creator-company join rule; mutating actions are closed.
func (e *Engine) authorizeFallback(x *evalCtx, action Action) (Decision, error) {
	if action != ActionView {
		return deny(DeniedRole), nil
	}
	if x.user.Company == "" {
		return deny(DeniedNoCompany), nil
	}
	co := x.creatorCompany()
	if x.err != nil {
		return deny(DeniedRole), x.err
	}
	if co == x.user.Company {
		return allow(), nil
	}
	return deny(DeniedDifferentCompany), nil
}

// AuthorizeStaffAssignment checks a staff_id reassignment. Only admins may
// reassign; agency admins may only hand campaigns to staff in their own
// company.
func (e *Engine) AuthorizeStaffAssignment(u *model.User, newStaff *model.User) Decision {
	switch ParseRole(u.Role) {
	case RoleSuperAdmin:
		return allow()
	case RoleAgencyAdmin:
		if u.Company == "" {
			return deny(DeniedNoCompany)
		}
		if newStaff.Company != u.Company {
			return deny(DeniedDifferentCompany)
		}
		return allow()
	default:
		return deny(DeniedRole)
	}
}

// AuthorizeCreatorAssignment checks a creator_id reassignment. This is an
// agency-admin operation (the substring fallback in ParseRole keeps the
// legacy role strings working) and the new creator must share the acting
// user's company.
func (e *Engine) AuthorizeCreatorAssignment(u *model.User, newCreator *model.User) Decision {
	if !IsAgencyAdmin(u.Role) {
		return deny(DeniedRole)
	}
	if u.Company == "" {
		return deny(DeniedNoCompany)
	}
	if newCreator.Company != u.Company {
		return deny(DeniedDifferentCompany)
	}
	return allow()
}
