package service_test

import (
	"errors"
	"testing"

	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/policy"
	"github.com/adstation/campaign-backend/internal/service"
)

// --- Mock repositories ---

type MockUserRepo struct {
	users []model.User
}

func (m *MockUserRepo) Create(u *model.User) error { return nil }

func (m *MockUserRepo) GetByID(id int) (*model.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, appErrors.NewUserNotFound(id)
}

func (m *MockUserRepo) GetByEmail(email string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, &appErrors.ErrUserNotFound{Email: email}
}

func (m *MockUserRepo) List() ([]*model.User, error) {
	out := []*model.User{}
	for i := range m.users {
		out = append(out, &m.users[i])
	}
	return out, nil
}

func (m *MockUserRepo) ListByCompany(company string) ([]*model.User, error) {
	out := []*model.User{}
	for i := range m.users {
		if m.users[i].Company == company {
			out = append(out, &m.users[i])
		}
	}
	return out, nil
}

func (m *MockUserRepo) TeamMemberIDs(company string, leaderID int) ([]int, error) {
	ids := []int{}
	for _, u := range m.users {
		if u.Company == company && u.TeamLeaderID != nil && *u.TeamLeaderID == leaderID {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (m *MockUserRepo) UserCompany(userID int) (string, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u.Company, nil
		}
	}
	return "", nil
}

type MockCampaignRepo struct {
	campaigns []model.Campaign
	nextID    int

	posts     map[int][]int
	orders    map[int][]int
	purchases map[int][]int
	notifs    map[int][]int

	executedPlans [][]policy.DeleteStep
	failExecution bool
	updatedStaff  map[int]*int
}

func (m *MockCampaignRepo) Create(c *model.Campaign) error {
	if m.nextID == 0 {
		m.nextID = 1000
	}
	c.ID = m.nextID
	m.nextID++
	m.campaigns = append(m.campaigns, *c)
	return nil
}

func (m *MockCampaignRepo) Update(c *model.Campaign) error {
	for i := range m.campaigns {
		if m.campaigns[i].ID == c.ID {
			m.campaigns[i] = *c
			return nil
		}
	}
	return appErrors.NewCampaignNotFound(c.ID)
}

func (m *MockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	for i := range m.campaigns {
		if m.campaigns[i].ID == id {
			c := m.campaigns[i]
			return &c, nil
		}
	}
	return nil, appErrors.NewCampaignNotFound(id)
}

func (m *MockCampaignRepo) ListCampaigns(pred policy.Predicate, offset, limit int) ([]*model.Campaign, int, error) {
	matched := []*model.Campaign{}
	for i := range m.campaigns {
		if pred.Matches(&m.campaigns[i], policy.Env{}) {
			matched = append(matched, &m.campaigns[i])
		}
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *MockCampaignRepo) UpdateStaff(campaignID int, staffID *int) error {
	if m.updatedStaff == nil {
		m.updatedStaff = map[int]*int{}
	}
	m.updatedStaff[campaignID] = staffID
	return nil
}

func (m *MockCampaignRepo) UpdateCreator(campaignID, creatorID int) error { return nil }

func (m *MockCampaignRepo) ListPosts(campaignID int) ([]*model.Post, error) {
	out := []*model.Post{}
	for _, id := range m.posts[campaignID] {
		out = append(out, &model.Post{ID: id, CampaignID: campaignID})
	}
	return out, nil
}

func (m *MockCampaignRepo) ListOrderRequests(campaignID int) ([]*model.OrderRequest, error) {
	out := []*model.OrderRequest{}
	for _, id := range m.orders[campaignID] {
		out = append(out, &model.OrderRequest{ID: id, CampaignID: campaignID})
	}
	return out, nil
}

func (m *MockCampaignRepo) CampaignPostIDs(campaignID int) ([]int, error) {
	return m.posts[campaignID], nil
}

func (m *MockCampaignRepo) CampaignOrderRequestIDs(campaignID int) ([]int, error) {
	return m.orders[campaignID], nil
}

func (m *MockCampaignRepo) CampaignPurchaseRequestIDs(campaignID int) ([]int, error) {
	return m.purchases[campaignID], nil
}

func (m *MockCampaignRepo) NotificationLogIDs(campaignID int, postIDs []int) ([]int, error) {
	return m.notifs[campaignID], nil
}

func (m *MockCampaignRepo) ExecuteDeletionPlan(steps []policy.DeleteStep) ([]int, error) {
	if m.failExecution {
		return nil, &appErrors.IntegrityViolation{Table: "posts", Err: errors.New("fk violation")}
	}
	m.executedPlans = append(m.executedPlans, steps)
	counts := make([]int, len(steps))
	for i, s := range steps {
		counts[i] = len(s.IDs)
	}
	return counts, nil
}

func intPtr(i int) *int { return &i }

func newService(userRepo *MockUserRepo, campaignRepo *MockCampaignRepo) *service.CampaignService {
	return &service.CampaignService{
		CampaignRepo: campaignRepo,
		UserRepo:     userRepo,
		Policy:       policy.NewEngine(userRepo, campaignRepo),
	}
}

// --- Tests ---

func TestListCampaignsScopedByRole(t *testing.T) {
	userRepo := &MockUserRepo{users: []model.User{
		{ID: 1, Role: "STAFF", Company: "Acme"},
	}}
	campaignRepo := &MockCampaignRepo{campaigns: []model.Campaign{
		{ID: 1, Company: "Acme", CreatorID: 1},
		{ID: 2, Company: "Acme", CreatorID: 2},
		{ID: 3, Company: "Acme", CreatorID: 2, StaffID: intPtr(1)},
	}}
	svc := newService(userRepo, campaignRepo)

	staff := &model.User{ID: 1, Role: "STAFF", Company: "Acme"}
	campaigns, pagination, err := svc.ListCampaigns(staff, 1, 20, nil)
	if err != nil {
		t.Fatalf("ListCampaigns: %v", err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("staff should see 2 campaigns, got %d", len(campaigns))
	}
	if pagination["total_count"] != 2 {
		t.Errorf("total_count = %d, want 2", pagination["total_count"])
	}
}

func TestListCampaignsPagination(t *testing.T) {
	campaignRepo := &MockCampaignRepo{}
	for i := 1; i <= 45; i++ {
		campaignRepo.campaigns = append(campaignRepo.campaigns, model.Campaign{ID: i, Company: "Acme", CreatorID: 9})
	}
	svc := newService(&MockUserRepo{}, campaignRepo)

	admin := &model.User{ID: 9, Role: "SUPER_ADMIN"}
	campaigns, pagination, err := svc.ListCampaigns(admin, 3, 20, nil)
	if err != nil {
		t.Fatalf("ListCampaigns: %v", err)
	}
	if len(campaigns) != 5 {
		t.Errorf("page 3 of 45 should hold 5, got %d", len(campaigns))
	}
	if pagination["total_pages"] != 3 {
		t.Errorf("total_pages = %d, want 3", pagination["total_pages"])
	}
}

func TestGetCampaignDenied(t *testing.T) {
	campaignRepo := &MockCampaignRepo{campaigns: []model.Campaign{
		{ID: 10, Company: "Acme", CreatorID: 2},
	}}
	svc := newService(&MockUserRepo{}, campaignRepo)

	staff := &model.User{ID: 1, Role: "STAFF", Company: "Acme"}
	_, err := svc.GetCampaign(staff, 10)

	var denied *appErrors.AuthorizationDenied
	if !errors.As(err, &denied) {
		t.Fatalf("expected AuthorizationDenied, got %v", err)
	}
	if denied.Reason != string(policy.DeniedNotOwner) {
		t.Errorf("reason = %s, want %s", denied.Reason, policy.DeniedNotOwner)
	}
}

func TestCreateCampaignStampsCompanyAndStatus(t *testing.T) {
	campaignRepo := &MockCampaignRepo{}
	svc := newService(&MockUserRepo{}, campaignRepo)

	creator := &model.User{ID: 3, Role: "STAFF", Company: "Acme"}
	c, err := svc.CreateCampaign(creator, service.CreateCampaignInput{Name: "Spring Launch", Budget: 1000})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if c.Company != "Acme" {
		t.Errorf("company = %q, want creator's company", c.Company)
	}
	if c.Status != "ACTIVE" {
		t.Errorf("status = %q, want ACTIVE", c.Status)
	}
	if c.CreatorID != 3 {
		t.Errorf("creator_id = %d, want 3", c.CreatorID)
	}
}

func TestCreateCampaignDeniedForClient(t *testing.T) {
	svc := newService(&MockUserRepo{}, &MockCampaignRepo{})

	client := &model.User{ID: 4, Role: "CLIENT", Company: "Acme"}
	_, err := svc.CreateCampaign(client, service.CreateCampaignInput{Name: "X"})

	var denied *appErrors.AuthorizationDenied
	if !errors.As(err, &denied) {
		t.Fatalf("expected AuthorizationDenied, got %v", err)
	}
}

func TestDeleteCampaignExecutesOrderedPlan(t *testing.T) {
	campaignRepo := &MockCampaignRepo{
		campaigns: []model.Campaign{{ID: 20, Company: "Acme", CreatorID: 1}},
		posts:     map[int][]int{20: {101, 102, 103}},
		orders:    map[int][]int{20: {201, 202}},
		notifs:    map[int][]int{20: {301}},
	}
	svc := newService(&MockUserRepo{}, campaignRepo)

	admin := &model.User{ID: 9, Role: "SUPER_ADMIN"}
	result, err := svc.DeleteCampaign(admin, 20)
	if err != nil {
		t.Fatalf("DeleteCampaign: %v", err)
	}

	if len(campaignRepo.executedPlans) != 1 {
		t.Fatalf("expected one executed plan, got %d", len(campaignRepo.executedPlans))
	}
	steps := campaignRepo.executedPlans[0]
	if steps[len(steps)-1].Table != "campaigns" {
		t.Error("campaign row must be deleted last")
	}

	if result.Removed["posts"] != 3 || result.Removed["order_requests"] != 2 || result.Removed["notification_logs"] != 1 {
		t.Errorf("removed counts wrong: %+v", result.Removed)
	}
	if result.Removed["campaigns"] != 1 {
		t.Errorf("campaign count = %d, want 1", result.Removed["campaigns"])
	}
}

func TestDeleteCampaignRollbackSurfacesIntegrityViolation(t *testing.T) {
	campaignRepo := &MockCampaignRepo{
		campaigns:     []model.Campaign{{ID: 20, Company: "Acme", CreatorID: 1}},
		failExecution: true,
	}
	svc := newService(&MockUserRepo{}, campaignRepo)

	admin := &model.User{ID: 9, Role: "SUPER_ADMIN"}
	_, err := svc.DeleteCampaign(admin, 20)

	var integrity *appErrors.IntegrityViolation
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityViolation, got %v", err)
	}
}

func TestDuplicateCampaign(t *testing.T) {
	campaignRepo := &MockCampaignRepo{campaigns: []model.Campaign{
		{ID: 20, Name: "Launch", Company: "Acme", CreatorID: 1, Budget: 500},
	}}
	svc := newService(&MockUserRepo{}, campaignRepo)

	admin := &model.User{ID: 5, Role: "AGENCY_ADMIN", Company: "Acme"}
	dup, err := svc.DuplicateCampaign(admin, 20)
	if err != nil {
		t.Fatalf("DuplicateCampaign: %v", err)
	}
	if dup.ID == 20 {
		t.Error("duplicate must get a new id")
	}
	if dup.Name != "Launch (copy)" {
		t.Errorf("name = %q", dup.Name)
	}
	if dup.CreatorID != 5 {
		t.Errorf("duplicate creator = %d, want acting user", dup.CreatorID)
	}
}

func TestDuplicateDeniedForTeamLeader(t *testing.T) {
	campaignRepo := &MockCampaignRepo{campaigns: []model.Campaign{
		{ID: 20, Company: "Acme", CreatorID: 1},
	}}
	svc := newService(&MockUserRepo{}, campaignRepo)

	leader := &model.User{ID: 1, Role: "TEAM_LEADER", Company: "Acme"}
	_, err := svc.DuplicateCampaign(leader, 20)

	var denied *appErrors.AuthorizationDenied
	if !errors.As(err, &denied) {
		t.Fatalf("expected AuthorizationDenied, got %v", err)
	}
	if denied.Reason != string(policy.DeniedRole) {
		t.Errorf("reason = %s, want %s", denied.Reason, policy.DeniedRole)
	}
}

func TestReassignStaffCompanyCheck(t *testing.T) {
	userRepo := &MockUserRepo{users: []model.User{
		{ID: 8, Role: "STAFF", Company: "Acme"},
		{ID: 9, Role: "STAFF", Company: "Other"},
	}}
	campaignRepo := &MockCampaignRepo{campaigns: []model.Campaign{
		{ID: 20, Company: "Acme", CreatorID: 1},
	}}
	svc := newService(userRepo, campaignRepo)

	admin := &model.User{ID: 5, Role: "AGENCY_ADMIN", Company: "Acme"}
	if err := svc.ReassignStaff(admin, 20, 8); err != nil {
		t.Fatalf("same-company reassignment failed: %v", err)
	}
	if got := campaignRepo.updatedStaff[20]; got == nil || *got != 8 {
		t.Errorf("staff not updated, got %v", got)
	}

	err := svc.ReassignStaff(admin, 20, 9)
	var denied *appErrors.AuthorizationDenied
	if !errors.As(err, &denied) {
		t.Fatalf("expected AuthorizationDenied, got %v", err)
	}
	if denied.Reason != string(policy.DeniedDifferentCompany) {
		t.Errorf("reason = %s, want %s", denied.Reason, policy.DeniedDifferentCompany)
	}
}

func TestListCampaignPostsInheritsCampaignAccess(t *testing.T) {
	campaignRepo := &MockCampaignRepo{
		campaigns: []model.Campaign{{ID: 20, Company: "Acme", CreatorID: 2}},
		posts:     map[int][]int{20: {101, 102}},
	}
	svc := newService(&MockUserRepo{}, campaignRepo)

	owner := &model.User{ID: 2, Role: "STAFF", Company: "Acme"}
	posts, err := svc.ListCampaignPosts(owner, 20)
	if err != nil {
		t.Fatalf("ListCampaignPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("got %d posts, want 2", len(posts))
	}

	stranger := &model.User{ID: 3, Role: "STAFF", Company: "Acme"}
	_, err = svc.ListCampaignPosts(stranger, 20)
	var denied *appErrors.AuthorizationDenied
	if !errors.As(err, &denied) {
		t.Fatalf("post listing must inherit the campaign denial, got %v", err)
	}
}
