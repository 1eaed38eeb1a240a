package repository

import (
	"database/sql"

	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/model"
)

type UserRepositoryInterface interface {
	Create(u *model.User) error
	GetByID(id int) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	List() ([]*model.User, error)
	ListByCompany(company string) ([]*model.User, error)

	// policy.Directory
	TeamMemberIDs(company string, leaderID int) ([]int, error)
	UserCompany(userID int) (string, error)
}

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, name, email, password_hash, role, company, team_leader_id, is_active, created_at, updated_at`

func (r *UserRepository) Create(u *model.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, company, team_leader_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(query, u.Name, u.Email, u.PasswordHash, u.Role, u.Company, u.TeamLeaderID, u.IsActive).
		Scan(&u.ID, &u.CreatedAt)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var company sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &company,
		&u.TeamLeaderID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Company = company.String
	return &u, nil
}

func (r *UserRepository) GetByID(id int) (*model.User, error) {
	row := r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, appErrors.NewUserNotFound(id)
	}
	return u, err
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	row := r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, &appErrors.ErrUserNotFound{Email: email}
	}
	return u, err
}

func (r *UserRepository) List() ([]*model.User, error) {
	return r.queryUsers(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
}

func (r *UserRepository) ListByCompany(company string) ([]*model.User, error) {
	return r.queryUsers(`SELECT `+userColumns+` FROM users WHERE company=$1 ORDER BY id`, company)
}

func (r *UserRepository) queryUsers(query string, args ...any) ([]*model.User, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		var u model.User
		var company sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &company,
			&u.TeamLeaderID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Company = company.String
		users = append(users, &u)
	}
	return users, rows.Err()
}

// TeamMemberIDs enforces the company clause in SQL so a team_leader_id row
// pointing across companies never counts as a team member.
func (r *UserRepository) TeamMemberIDs(company string, leaderID int) ([]int, error) {
	rows, err := r.DB.Query(
		`SELECT id FROM users WHERE company=$1 AND team_leader_id=$2`, company, leaderID)
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

func (r *UserRepository) UserCompany(userID int) (string, error) {
	var company sql.NullString
	err := r.DB.QueryRow(`SELECT company FROM users WHERE id=$1`, userID).Scan(&company)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return company.String, nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
