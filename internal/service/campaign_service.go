// internal/service/campaign_service.go
package service

import (
	"fmt"
	"time"

	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/policy"
	"github.com/adstation/campaign-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	UserRepo     repository.UserRepositoryInterface
	Policy       *policy.Engine
	Notifier     *NotificationService
}

type CreateCampaignInput struct {
	Name         string
	Description  string
	Budget       float64
	ClientUserID *int
	StartDate    *time.Time
	EndDate      *time.Time
}

type UpdateCampaignInput struct {
	Name        *string
	Description *string
	Budget      *float64
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// DeleteCampaignResult reports how many rows each cascade step removed.
type DeleteCampaignResult struct {
	CampaignID int            `json:"campaign_id"`
	Removed    map[string]int `json:"removed"`
}

// ListCampaigns fetches campaigns visible to the viewer, with pagination.
// The month filter, when present, narrows by start_date without changing the
// visibility rule.
func (s *CampaignService) ListCampaigns(viewer *model.User, page, pageSize int, month *policy.MonthFilter) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	pred, err := s.Policy.BuildListPredicate(viewer, month)
	if err != nil {
		return nil, nil, err
	}

	ptrs, total, err := s.CampaignRepo.ListCampaigns(pred, offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// GetCampaign loads a campaign and checks view access.
func (s *CampaignService) GetCampaign(viewer *model.User, id int) (*model.Campaign, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(viewer, policy.ActionView, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// CreateCampaign is open to admins and staff; clients cannot create. The
// campaign's company is stamped from the creator at submission time.
func (s *CampaignService) CreateCampaign(creator *model.User, in CreateCampaignInput) (*model.Campaign, error) {
	switch policy.ParseRole(creator.Role) {
	case policy.RoleSuperAdmin, policy.RoleAgencyAdmin, policy.RoleTeamLeader, policy.RoleStaff:
	default:
		return nil, appErrors.NewAuthorizationDenied("create", string(policy.DeniedRole))
	}

	c := &model.Campaign{
		Name:         in.Name,
		Description:  in.Description,
		Company:      creator.Company,
		CreatorID:    creator.ID,
		ClientUserID: in.ClientUserID,
		Budget:       in.Budget,
		Status:       "ACTIVE",
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}

	s.Notifier.PublishCampaignEvent(CampaignEvent{
		EventType:  "campaign_created",
		CampaignID: c.ID,
		ActorID:    creator.ID,
		Message:    fmt.Sprintf("campaign %q created", c.Name),
	})
	return c, nil
}

// UpdateCampaign applies the changed fields after an edit check. The client
// assignment is not editable here; it changes only through reassignment.
func (s *CampaignService) UpdateCampaign(viewer *model.User, id int, in UpdateCampaignInput) (*model.Campaign, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(viewer, policy.ActionEdit, campaign); err != nil {
		return nil, err
	}

	if in.Name != nil {
		campaign.Name = *in.Name
	}
	if in.Description != nil {
		campaign.Description = *in.Description
	}
	if in.Budget != nil {
		campaign.Budget = *in.Budget
	}
	if in.Status != nil {
		campaign.Status = *in.Status
	}
	if in.StartDate != nil {
		campaign.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		campaign.EndDate = in.EndDate
	}

	if err := s.CampaignRepo.Update(campaign); err != nil {
		return nil, err
	}

	s.Notifier.PublishCampaignEvent(CampaignEvent{
		EventType:  "campaign_updated",
		CampaignID: campaign.ID,
		ActorID:    viewer.ID,
		Message:    fmt.Sprintf("campaign %q updated", campaign.Name),
	})
	return campaign, nil
}

// DeleteCampaign plans the cascade and executes it in one transaction. The
// result reports the rows removed per table.
func (s *CampaignService) DeleteCampaign(viewer *model.User, id int) (*DeleteCampaignResult, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(viewer, policy.ActionDelete, campaign); err != nil {
		return nil, err
	}

	steps, err := s.Policy.PlanCascadeDeletion(id)
	if err != nil {
		return nil, err
	}
	counts, err := s.CampaignRepo.ExecuteDeletionPlan(steps)
	if err != nil {
		return nil, err
	}

	removed := make(map[string]int, len(steps))
	for i, step := range steps {
		removed[step.Table] = counts[i]
	}

	s.Notifier.PublishCampaignEvent(CampaignEvent{
		EventType:  "campaign_deleted",
		CampaignID: id,
		ActorID:    viewer.ID,
		Message:    fmt.Sprintf("campaign %q deleted", campaign.Name),
	})
	return &DeleteCampaignResult{CampaignID: id, Removed: removed}, nil
}

// DuplicateCampaign copies a campaign under the acting user. Children are not
// copied; the duplicate starts empty.
func (s *CampaignService) DuplicateCampaign(viewer *model.User, id int) (*model.Campaign, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(viewer, policy.ActionDuplicate, campaign); err != nil {
		return nil, err
	}

	dup := &model.Campaign{
		Name:         campaign.Name + " (copy)",
		Description:  campaign.Description,
		Company:      campaign.Company,
		CreatorID:    viewer.ID,
		ClientUserID: campaign.ClientUserID,
		Budget:       campaign.Budget,
		Status:       "ACTIVE",
		StartDate:    campaign.StartDate,
		EndDate:      campaign.EndDate,
	}
	if err := s.CampaignRepo.Create(dup); err != nil {
		return nil, err
	}
	return dup, nil
}

// ReassignStaff changes the assigned staff after the company check on the new
// assignee.
func (s *CampaignService) ReassignStaff(viewer *model.User, campaignID, newStaffID int) error {
	if _, err := s.CampaignRepo.GetByID(campaignID); err != nil {
		return err
	}
	newStaff, err := s.UserRepo.GetByID(newStaffID)
	if err != nil {
		return err
	}
	if d := s.Policy.AuthorizeStaffAssignment(viewer, newStaff); !d.Allowed {
		return appErrors.NewAuthorizationDenied("reassign_staff", string(d.Reason))
	}
	return s.CampaignRepo.UpdateStaff(campaignID, &newStaffID)
}

// ReassignCreator hands the campaign to a new creator in the acting admin's
// company.
func (s *CampaignService) ReassignCreator(viewer *model.User, campaignID, newCreatorID int) error {
	if _, err := s.CampaignRepo.GetByID(campaignID); err != nil {
		return err
	}
	newCreator, err := s.UserRepo.GetByID(newCreatorID)
	if err != nil {
		return err
	}
	if d := s.Policy.AuthorizeCreatorAssignment(viewer, newCreator); !d.Allowed {
		return appErrors.NewAuthorizationDenied("reassign_creator", string(d.Reason))
	}
	return s.CampaignRepo.UpdateCreator(campaignID, newCreatorID)
}

// ListCampaignPosts returns the posts of a campaign the viewer can see. Posts
// carry no visibility rules of their own; access is inherited from the
// owning campaign.
func (s *CampaignService) ListCampaignPosts(viewer *model.User, campaignID int) ([]*model.Post, error) {
	if _, err := s.GetCampaign(viewer, campaignID); err != nil {
		return nil, err
	}
	return s.CampaignRepo.ListPosts(campaignID)
}

// ListCampaignOrderRequests mirrors ListCampaignPosts for order requests.
func (s *CampaignService) ListCampaignOrderRequests(viewer *model.User, campaignID int) ([]*model.OrderRequest, error) {
	if _, err := s.GetCampaign(viewer, campaignID); err != nil {
		return nil, err
	}
	return s.CampaignRepo.ListOrderRequests(campaignID)
}

func (s *CampaignService) authorize(viewer *model.User, action policy.Action, c *model.Campaign) error {
	d, err := s.Policy.Authorize(viewer, action, c)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return appErrors.NewAuthorizationDenied(string(action), string(d.Reason))
	}
	return nil
}
