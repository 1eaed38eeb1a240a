// internal/policy/cascade.go
package policy

// Dependents enumerates the child record ids of a campaign. Implemented by
// the campaign repository.
type Dependents interface {
	CampaignPostIDs(campaignID int) ([]int, error)
	CampaignOrderRequestIDs(campaignID int) ([]int, error)
	CampaignPurchaseRequestIDs(campaignID int) ([]int, error)
	// NotificationLogIDs matches logs by campaign_id or by any of the given
	// post ids.
	NotificationLogIDs(campaignID int, postIDs []int) ([]int, error)
}

// DeleteStep is one group of same-table deletions inside a cascade plan.
type DeleteStep struct {
	Table string `json:"table"`
	IDs   []int  `json:"ids"`
}

// PlanCascadeDeletion returns the ordered deletions required before the
// campaign row itself can go. The store enforces no ON DELETE CASCADE for
// these relations, so order matters: notification logs and order requests
// strictly before posts, posts strictly before the campaign. Empty groups are
// kept so the plan shape is stable. The caller must run the whole plan inside
// one transaction.
func (e *Engine) PlanCascadeDeletion(campaignID int) ([]DeleteStep, error) {
	postIDs, err := e.deps.CampaignPostIDs(campaignID)
	if err != nil {
		return nil, err
	}
	notifIDs, err := e.deps.NotificationLogIDs(campaignID, postIDs)
	if err != nil {
		return nil, err
	}
	orderIDs, err := e.deps.CampaignOrderRequestIDs(campaignID)
	if err != nil {
		return nil, err
	}
	purchaseIDs, err := e.deps.CampaignPurchaseRequestIDs(campaignID)
	if err != nil {
		return nil, err
	}

	return []DeleteStep{
		{Table: "notification_logs", IDs: notifIDs},
		{Table: "order_requests", IDs: orderIDs},
		{Table: "purchase_requests", IDs: purchaseIDs},
		{Table: "posts", IDs: postIDs},
		{Table: "campaigns", IDs: []int{campaignID}},
	}, nil
}
