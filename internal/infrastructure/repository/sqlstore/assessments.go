package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/healthfirst/homecare/internal/core/domain"
)

type AssessmentRepository struct {
	db *DB
}

func NewAssessmentRepository(db *DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = `id, user_id, user_email, symptoms, age_at_assessment, days_sick, priority, message,
	description, recommendations, created_at`

func (r *AssessmentRepository) CreateAssessment(ctx context.Context, a *domain.Assessment) error {
	recs := a.Recommendations
	if recs == nil {
		recs = []string{}
	}
	recsJSON, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	_, err = r.db.exec(ctx, `
INSERT INTO assessments (`+assessmentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		a.ID, a.UserID, a.UserEmail, a.Symptoms, a.AgeAtAssessment, a.DaysSick, string(a.Priority),
		a.Message, a.Description, string(recsJSON), a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (r *AssessmentRepository) ListAssessments(ctx context.Context, limit int) ([]domain.Assessment, error) {
	return r.list(ctx, `SELECT `+assessmentColumns+` FROM assessments ORDER BY created_at DESC`+limitClause(limit))
}

func (r *AssessmentRepository) ListUserAssessments(ctx context.Context, userID string, limit int) ([]domain.Assessment, error) {
	return r.list(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE user_id = $1 ORDER BY created_at DESC`+limitClause(limit), userID)
}

func (r *AssessmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Assessment, error) {
	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}

func (r *AssessmentRepository) DeleteAssessment(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return expectAffected(res, "delete assessment", id)
}

func (r *AssessmentRepository) CountAssessments(ctx context.Context, from, to time.Time) (int, error) {
	where, args := rangeClause("created_at", from, to, nil)
	var n int
	if err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM assessments`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}

func scanAssessment(row rowScanner) (domain.Assessment, error) {
	var (
		a        domain.Assessment
		priority string
		recsRaw  string
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.UserEmail, &a.Symptoms, &a.AgeAtAssessment, &a.DaysSick, &priority,
		&a.Message, &a.Description, &recsRaw, &a.CreatedAt,
	)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("scan assessment: %w", err)
	}
	if err := json.Unmarshal([]byte(recsRaw), &a.Recommendations); err != nil {
		return domain.Assessment{}, fmt.Errorf("unmarshal recommendations: %w", err)
	}
	a.Priority = domain.Priority(priority)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}
