package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"finrisk/pkg/core/analysis"
	"finrisk/pkg/models"
)

// AssessmentRepo stores finished assessment runs append-only; the newest row
// per company is the current verdict.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS assessments (
//	    assessment_id   UUID        PRIMARY KEY,
//	    company_id      TEXT        NOT NULL,
//	    period          TEXT        NOT NULL,
//	    assessment_json JSONB       NOT NULL,
//	    created_at      TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX IF NOT EXISTS assessments_company_idx
//	    ON assessments (company_id, created_at DESC);
type AssessmentRepo struct{}

func NewAssessmentRepo() *AssessmentRepo {
	return &AssessmentRepo{}
}

// SaveAssessment appends one assessment run.
func (r *AssessmentRepo) SaveAssessment(ctx context.Context, ca *analysis.CompanyAssessment) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	data, err := json.Marshal(ca)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	query := `
		INSERT INTO assessments (assessment_id, company_id, period, assessment_json, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := pool.Exec(ctx, query, ca.AssessmentID, ca.CompanyID, ca.Period, data, ca.GeneratedAt); err != nil {
		return fmt.Errorf("failed to save assessment %s: %w", ca.AssessmentID, err)
	}
	return nil
}

// GetAssessment loads one assessment by id.
func (r *AssessmentRepo) GetAssessment(ctx context.Context, assessmentID string) (*analysis.CompanyAssessment, error) {
	return r.queryOne(ctx,
		`SELECT assessment_json FROM assessments WHERE assessment_id = $1`, assessmentID)
}

// LatestByCompany loads a company's most recent assessment.
func (r *AssessmentRepo) LatestByCompany(ctx context.Context, companyID string) (*analysis.CompanyAssessment, error) {
	return r.queryOne(ctx,
		`SELECT assessment_json FROM assessments WHERE company_id = $1 ORDER BY created_at DESC LIMIT 1`, companyID)
}

func (r *AssessmentRepo) queryOne(ctx context.Context, query, arg string) (*analysis.CompanyAssessment, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var data []byte
	if err := pool.QueryRow(ctx, query, arg).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("assessment for %q: %w", arg, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	var ca analysis.CompanyAssessment
	if err := json.Unmarshal(data, &ca); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
	}
	return &ca, nil
}
