package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/healthfirst/homecare/internal/core/domain"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, display_name, gender, age, height, weight, medical_history,
	phone, address, emergency_contact, blood_type, allergies, medications, is_admin, is_active,
	last_login, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := r.db.exec(ctx, `
INSERT INTO users (`+userColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
`, userArgs(u)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrConflict, "create user", err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func userArgs(u *domain.User) []any {
	return []any{
		u.ID, u.Email, u.PasswordHash, u.DisplayName, string(u.Gender),
		nullInt(u.Age), nullFloat(u.HeightCM), nullFloat(u.WeightKG), u.MedicalHistory,
		u.Phone, u.Address, u.EmergencyContact, u.BloodType, u.Allergies, u.Medications,
		u.IsAdmin, u.IsActive, nullTime(u.LastLoginAt), u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	}
}

// updateArgs is userArgs without created_at.
func updateArgs(u *domain.User) []any {
	args := userArgs(u)
	return append(args[:18:18], args[19])
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("get user", id)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get user by email", errors.New(email))
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := r.db.exec(ctx, `
UPDATE users
SET email = $2, password_hash = $3, display_name = $4, gender = $5, age = $6, height = $7, weight = $8,
	medical_history = $9, phone = $10, address = $11, emergency_contact = $12, blood_type = $13,
	allergies = $14, medications = $15, is_admin = $16, is_active = $17, last_login = $18, updated_at = $19
WHERE id = $1
`, updateArgs(u)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrConflict, "update user", err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return expectAffected(res, "update user", u.ID)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectAffected(res, "delete user", id)
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (r *UserRepository) CountUsers(ctx context.Context, from, to time.Time) (int, error) {
	where, args := rangeClause("created_at", from, to, nil)
	var n int
	if err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		gender    string
		age       sql.NullInt64
		height    sql.NullFloat64
		weight    sql.NullFloat64
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &gender, &age, &height, &weight, &u.MedicalHistory,
		&u.Phone, &u.Address, &u.EmergencyContact, &u.BloodType, &u.Allergies, &u.Medications,
		&u.IsAdmin, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Gender = domain.Gender(gender)
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if height.Valid {
		v := height.Float64
		u.HeightCM = &v
	}
	if weight.Valid {
		v := weight.Float64
		u.WeightKG = &v
	}
	if lastLogin.Valid {
		v := lastLogin.Time.UTC()
		u.LastLoginAt = &v
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.UTC(), Valid: true}
}
