package policy_test

import (
	"fmt"

	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/policy"
)

// fakeDirectory backs the engine with an in-memory user table. Lookups for
// ids listed in companyErrFor fail.
type fakeDirectory struct {
	users         []model.User
	calls         int
	companyErrFor map[int]error
}

func (f *fakeDirectory) TeamMemberIDs(company string, leaderID int) ([]int, error) {
	f.calls++
	ids := []int{}
	for _, u := range f.users {
		if u.Company == company && u.TeamLeaderID != nil && *u.TeamLeaderID == leaderID {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (f *fakeDirectory) UserCompany(userID int) (string, error) {
	if err, ok := f.companyErrFor[userID]; ok {
		return "", err
	}
	for _, u := range f.users {
		if u.ID == userID {
			return u.Company, nil
		}
	}
	return "", nil
}

// fakeDependents returns fixed child id sets.
type fakeDependents struct {
	posts     []int
	orders    []int
	purchases []int
	notifs    []int
	failOn    string
}

func (f *fakeDependents) CampaignPostIDs(int) ([]int, error) {
	if f.failOn == "posts" {
		return nil, fmt.Errorf("posts unavailable")
	}
	return f.posts, nil
}

func (f *fakeDependents) CampaignOrderRequestIDs(int) ([]int, error) {
	if f.failOn == "orders" {
		return nil, fmt.Errorf("orders unavailable")
	}
	return f.orders, nil
}

func (f *fakeDependents) CampaignPurchaseRequestIDs(int) ([]int, error) {
	return f.purchases, nil
}

func (f *fakeDependents) NotificationLogIDs(int, []int) ([]int, error) {
	return f.notifs, nil
}

func intPtr(i int) *int { return &i }

func user(id int, role, company string) *model.User {
	return &model.User{ID: id, Role: role, Company: company, IsActive: true}
}

func campaign(id int, company string, creatorID int) *model.Campaign {
	return &model.Campaign{ID: id, Company: company, CreatorID: creatorID, Status: "ACTIVE"}
}

func newTestEngine(dir *fakeDirectory, deps *fakeDependents) *policy.Engine {
	if dir == nil {
		dir = &fakeDirectory{}
	}
	if deps == nil {
		deps = &fakeDependents{}
	}
	return policy.NewEngine(dir, deps)
}
