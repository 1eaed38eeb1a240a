package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/policy"
)

type CampaignRepositoryInterface interface {
	// Campaign CRUD
	Create(c *model.Campaign) error
	Update(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	ListCampaigns(pred policy.Predicate, offset, limit int) ([]*model.Campaign, int, error)
	UpdateStaff(campaignID int, staffID *int) error
	UpdateCreator(campaignID, creatorID int) error

	// Campaign children
	ListPosts(campaignID int) ([]*model.Post, error)
	ListOrderRequests(campaignID int) ([]*model.OrderRequest, error)

	// policy.Dependents
	CampaignPostIDs(campaignID int) ([]int, error)
	CampaignOrderRequestIDs(campaignID int) ([]int, error)
	CampaignPurchaseRequestIDs(campaignID int) ([]int, error)
	NotificationLogIDs(campaignID int, postIDs []int) ([]int, error)

	// Cascade execution
	ExecuteDeletionPlan(steps []policy.DeleteStep) ([]int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, description, company, creator_id, staff_id, client_user_id, budget, status, start_date, end_date, created_at, updated_at`

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = "ACTIVE"
	}
	query := `
		INSERT INTO campaigns (name, description, company, creator_id, staff_id, client_user_id, budget, status, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRow(query,
		c.Name, c.Description, c.Company, c.CreatorID, c.StaffID, c.ClientUserID,
		c.Budget, c.Status, c.StartDate, c.EndDate, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
		UPDATE campaigns
		SET name=$1, description=$2, budget=$3, status=$4, start_date=$5, end_date=$6, updated_at=NOW()
		WHERE id=$7
	`
	_, err := r.DB.Exec(query, c.Name, c.Description, c.Budget, c.Status, c.StartDate, c.EndDate, c.ID)
	return err
}

func (r *CampaignRepository) UpdateStaff(campaignID int, staffID *int) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET staff_id=$1, updated_at=NOW() WHERE id=$2`, staffID, campaignID)
	return err
}

func (r *CampaignRepository) UpdateCreator(campaignID, creatorID int) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET creator_id=$1, updated_at=NOW() WHERE id=$2`, creatorID, campaignID)
	return err
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Company, &c.CreatorID, &c.StaffID, &c.ClientUserID,
		&c.Budget, &c.Status, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

// ListCampaigns compiles the policy predicate into the WHERE clause. The same
// predicate also gates single-entity checks, so a row visible here is always
// viewable in detail.
func (r *CampaignRepository) ListCampaigns(pred policy.Predicate, offset, limit int) ([]*model.Campaign, int, error) {
	clause, args := pred.SQL(1)
	argPos := len(args) + 1

	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE ` + clause +
		fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	listArgs := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.Query(query, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Company, &c.CreatorID, &c.StaffID, &c.ClientUserID,
			&c.Budget, &c.Status, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE ` + clause
	if err := r.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// ====================== Campaign children ======================

func (r *CampaignRepository) ListPosts(campaignID int) ([]*model.Post, error) {
	query := `
		SELECT id, title, work_type, topic_status, published_url, campaign_id, is_active, created_at, updated_at
		FROM posts WHERE campaign_id=$1 ORDER BY id
	`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		p := &model.Post{}
		if err := rows.Scan(&p.ID, &p.Title, &p.WorkType, &p.TopicStatus, &p.PublishedURL,
			&p.CampaignID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *CampaignRepository) ListOrderRequests(campaignID int) ([]*model.OrderRequest, error) {
	query := `
		SELECT id, title, status, company, cost_price, post_id, user_id, campaign_id, is_active, created_at, updated_at
		FROM order_requests WHERE campaign_id=$1 ORDER BY id
	`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*model.OrderRequest{}
	for rows.Next() {
		o := &model.OrderRequest{}
		var company sql.NullString
		if err := rows.Scan(&o.ID, &o.Title, &o.Status, &company, &o.CostPrice,
			&o.PostID, &o.UserID, &o.CampaignID, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Company = company.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ====================== Dependent id enumeration ======================

func (r *CampaignRepository) CampaignPostIDs(campaignID int) ([]int, error) {
	return r.queryIDs(`SELECT id FROM posts WHERE campaign_id=$1 ORDER BY id`, campaignID)
}

func (r *CampaignRepository) CampaignOrderRequestIDs(campaignID int) ([]int, error) {
	return r.queryIDs(`SELECT id FROM order_requests WHERE campaign_id=$1 ORDER BY id`, campaignID)
}

func (r *CampaignRepository) CampaignPurchaseRequestIDs(campaignID int) ([]int, error) {
	return r.queryIDs(`SELECT id FROM purchase_requests WHERE campaign_id=$1 ORDER BY id`, campaignID)
}

func (r *CampaignRepository) NotificationLogIDs(campaignID int, postIDs []int) ([]int, error) {
	if len(postIDs) == 0 {
		return r.queryIDs(`SELECT id FROM notification_logs WHERE campaign_id=$1 ORDER BY id`, campaignID)
	}

	placeholders := make([]string, len(postIDs))
	args := []any{campaignID}
	for i, id := range postIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`SELECT id FROM notification_logs WHERE campaign_id=$1 OR post_id IN (%s) ORDER BY id`,
		strings.Join(placeholders, ", "))
	return r.queryIDs(query, args...)
}

func (r *CampaignRepository) queryIDs(query string, args ...any) ([]int, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ====================== Cascade execution ======================

// ExecuteDeletionPlan runs every step of the plan inside one transaction and
// returns the rows removed per step. Any failure rolls the whole thing back;
// a half-deleted campaign with orphaned children must never be committed.
func (r *CampaignRepository) ExecuteDeletionPlan(steps []policy.DeleteStep) ([]int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}

	counts := make([]int, len(steps))
	for i, step := range steps {
		if len(step.IDs) == 0 {
			continue
		}
		placeholders := make([]string, len(step.IDs))
		args := make([]any, len(step.IDs))
		for j, id := range step.IDs {
			placeholders[j] = fmt.Sprintf("$%d", j+1)
			args[j] = id
		}
		query := fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", step.Table, strings.Join(placeholders, ", "))

		res, err := tx.Exec(query, args...)
		if err != nil {
			tx.Rollback()
			return nil, &appErrors.IntegrityViolation{Table: step.Table, Err: err}
		}
		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return nil, &appErrors.IntegrityViolation{Table: step.Table, Err: err}
		}
		counts[i] = int(affected)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return counts, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
