// internal/policy/predicate.go
package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/adstation/campaign-backend/internal/model"
)

// Env carries the per-campaign lookups a predicate may need when evaluated
// in memory. The creator/staff companies are resolved by the engine from the
// Directory; the storage layer never needs Env because the SQL form joins
// instead.
type Env struct {
	CreatorCompany string
	StaffCompany   string
}

// Predicate is a boolean expression over campaign rows. It evaluates the same
// rule two ways: Matches tests an already-loaded campaign, SQL renders a
// parameterized WHERE fragment the repository appends to its list query.
type Predicate interface {
	Matches(c *model.Campaign, env Env) bool
	// SQL renders the fragment with positional placeholders starting at pos
	// and returns the arguments in order.
	SQL(pos int) (string, []any)
}

// MonthFilter restricts campaigns to those whose start_date falls inside the
// given calendar month. It is AND-ed onto the role predicate uniformly and
// never changes which role branch applies.
type MonthFilter struct {
	Year  int
	Month time.Month
}

type truePred struct{}

func (truePred) Matches(*model.Campaign, Env) bool { return true }
func (truePred) SQL(int) (string, []any)           { return "TRUE", nil }

type falsePred struct{}

func (falsePred) Matches(*model.Campaign, Env) bool { return false }
func (falsePred) SQL(int) (string, []any)           { return "FALSE", nil }

type creatorIs struct{ id int }

func (p creatorIs) Matches(c *model.Campaign, _ Env) bool { return c.CreatorID == p.id }
func (p creatorIs) SQL(pos int) (string, []any) {
	return fmt.Sprintf("creator_id = $%d", pos), []any{p.id}
}

type staffIs struct{ id int }

func (p staffIs) Matches(c *model.Campaign, _ Env) bool {
	return c.StaffID != nil && *c.StaffID == p.id
}
func (p staffIs) SQL(pos int) (string, []any) {
	return fmt.Sprintf("staff_id = $%d", pos), []any{p.id}
}

type clientIs struct{ id int }

func (p clientIs) Matches(c *model.Campaign, _ Env) bool {
	return c.ClientUserID != nil && *c.ClientUserID == p.id
}
func (p clientIs) SQL(pos int) (string, []any) {
	return fmt.Sprintf("client_user_id = $%d", pos), []any{p.id}
}

type companyIs struct{ company string }

func (p companyIs) Matches(c *model.Campaign, _ Env) bool { return c.Company == p.company }
func (p companyIs) SQL(pos int) (string, []any) {
	return fmt.Sprintf("company = $%d", pos), []any{p.company}
}

// creatorCompanyIs is the safety-net rule for unrecognized roles. It is a
// deliberately distinct path from companyIs: it joins through the creator's
// user row rather than trusting the campaign's own company column.
type creatorCompanyIs struct{ company string }

func (p creatorCompanyIs) Matches(_ *model.Campaign, env Env) bool {
	return env.CreatorCompany == p.company
}
func (p creatorCompanyIs) SQL(pos int) (string, []any) {
	clause := fmt.Sprintf(
		"EXISTS (SELECT 1 FROM users WHERE users.id = campaigns.creator_id AND users.company = $%d)", pos)
	return clause, []any{p.company}
}

type creatorIn struct{ ids []int }

func (p creatorIn) Matches(c *model.Campaign, _ Env) bool {
	for _, id := range p.ids {
		if c.CreatorID == id {
			return true
		}
	}
	return false
}
func (p creatorIn) SQL(pos int) (string, []any) { return inClause("creator_id", p.ids, pos) }

type staffIn struct{ ids []int }

func (p staffIn) Matches(c *model.Campaign, _ Env) bool {
	if c.StaffID == nil {
		return false
	}
	for _, id := range p.ids {
		if *c.StaffID == id {
			return true
		}
	}
	return false
}
func (p staffIn) SQL(pos int) (string, []any) { return inClause("staff_id", p.ids, pos) }

func inClause(column string, ids []int, pos int) (string, []any) {
	if len(ids) == 0 {
		return "FALSE", nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", pos+i)
		args[i] = id
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}

type monthRange struct {
	from time.Time
	to   time.Time
}

func newMonthRange(f MonthFilter) monthRange {
	from := time.Date(f.Year, f.Month, 1, 0, 0, 0, 0, time.UTC)
	return monthRange{from: from, to: from.AddDate(0, 1, 0)}
}

func (p monthRange) Matches(c *model.Campaign, _ Env) bool {
	if c.StartDate == nil {
		return false
	}
	return !c.StartDate.Before(p.from) && c.StartDate.Before(p.to)
}
func (p monthRange) SQL(pos int) (string, []any) {
	clause := fmt.Sprintf("start_date >= $%d AND start_date < $%d", pos, pos+1)
	return clause, []any{p.from, p.to}
}

type orPred struct{ subs []Predicate }

func (p orPred) Matches(c *model.Campaign, env Env) bool {
	for _, sub := range p.subs {
		if sub.Matches(c, env) {
			return true
		}
	}
	return false
}
func (p orPred) SQL(pos int) (string, []any) { return joinSQL(p.subs, " OR ", pos) }

type andPred struct{ subs []Predicate }

func (p andPred) Matches(c *model.Campaign, env Env) bool {
	for _, sub := range p.subs {
		if !sub.Matches(c, env) {
			return false
		}
	}
	return true
}
func (p andPred) SQL(pos int) (string, []any) { return joinSQL(p.subs, " AND ", pos) }

func joinSQL(subs []Predicate, sep string, pos int) (string, []any) {
	parts := make([]string, 0, len(subs))
	var args []any
	for _, sub := range subs {
		clause, a := sub.SQL(pos)
		pos += len(a)
		parts = append(parts, clause)
		args = append(args, a...)
	}
	return "(" + strings.Join(parts, sep) + ")", args
}

func anyOf(subs ...Predicate) Predicate { return orPred{subs: subs} }
func allOf(subs ...Predicate) Predicate { return andPred{subs: subs} }

// buildViewPredicate selects exactly one role branch; roles never combine.
func buildViewPredicate(u *model.User, teamIDs []int) Predicate {
	switch ParseRole(u.Role) {
	case RoleSuperAdmin:
		return truePred{}
	case RoleAgencyAdmin:
		if u.Company == "" {
			// No company on file means no visible scope at all.
			return falsePred{}
		}
		return anyOf(companyIs{u.Company}, creatorIs{u.ID}, staffIs{u.ID})
	case RoleClient:
		return clientIs{u.ID}
	case RoleTeamLeader:
		return anyOf(
			creatorIs{u.ID},
			staffIs{u.ID},
			creatorIn{teamIDs},
			staffIn{teamIDs},
		)
	case RoleStaff:
		return anyOf(creatorIs{u.ID}, staffIs{u.ID})
	default:
		// Unrecognized role: fall back to the creator-company join. Keeps a
		// future role from seeing everything, without crashing.
		if u.Company == "" {
			return falsePred{}
		}
		return creatorCompanyIs{u.Company}
	}
}

// BuildListPredicate compiles the visibility rule for the user into a
// predicate the repository turns into a WHERE clause. The optional month
// filter is AND-ed on regardless of role.
func (e *Engine) BuildListPredicate(u *model.User, month *MonthFilter) (Predicate, error) {
	teamIDs, err := ResolveTeamMemberIDs(e.dir, u)
	if err != nil {
		return nil, err
	}
	pred := buildViewPredicate(u, teamIDs)
	if month != nil {
		pred = allOf(pred, newMonthRange(*month))
	}
	return pred, nil
}
