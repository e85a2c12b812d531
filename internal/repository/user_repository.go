package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/university-admin/internal/model"
	"github.com/iliyamo/university-admin/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,first_name,last_name,COALESCE(father_name,''),role,COALESCE(phone_number,''),date_of_birth,is_active,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.FatherName, &u.Role, &u.Phone, &u.DateOfBirth, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create hashes the password, inserts the user and fills in its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, father_name, role, phone_number, date_of_birth, is_active) VALUES (?,?,?,?,NULLIF(?,''),?,NULLIF(?,''),?,?)",
		u.Email, hash, u.FirstName, u.LastName, u.FatherName, u.Role, u.Phone, u.DateOfBirth, u.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.PasswordHash = hash
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id. It satisfies auth.UserStore.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UserFilter narrows List results. Zero values mean "no filter".
type UserFilter struct {
	Role    string
	Search  string // matches first name, last name or email
	Page    int
	PerPage int
}

// List returns a page of users plus the total row count for the filter.
func (r *UserRepo) List(ctx context.Context, f UserFilter) ([]model.User, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Role != "" {
		where = append(where, "role=?")
		args = append(args, f.Role)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, "(first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)")
		args = append(args, like, like, like)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	q := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT ? OFFSET ?", userColumns, cond)
	rows, err := r.DB.QueryContext(ctx, q, append(args, per, (page-1)*per)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Update writes the mutable profile fields of u.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=?, first_name=?, last_name=?, father_name=NULLIF(?,''), role=?, phone_number=NULLIF(?,''), date_of_birth=?, is_active=? WHERE id=?",
		u.Email, u.FirstName, u.LastName, u.FatherName, u.Role, u.Phone, u.DateOfBirth, u.IsActive, u.ID)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

// UpdatePassword replaces the stored hash for the user.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// Delete removes the user row. Dependent courses and events cascade in the
// schema.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, per int) (int, int) {
	if page < 1 {
		page = 1
	}
	if per < 1 || per > 100 {
		per = 20
	}
	return page, per
}
