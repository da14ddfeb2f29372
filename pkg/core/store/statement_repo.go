package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"finrisk/pkg/models"
)

// StatementRepo stores raw financial statements, one row per company and
// period.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS statements (
//	    company_id     TEXT        NOT NULL,
//	    period         TEXT        NOT NULL,
//	    statement_json JSONB       NOT NULL,
//	    updated_at     TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (company_id, period)
//	);
type StatementRepo struct{}

func NewStatementRepo() *StatementRepo {
	return &StatementRepo{}
}

// SaveStatement upserts one statement; re-uploading a period replaces the
// earlier row.
func (r *StatementRepo) SaveStatement(ctx context.Context, stmt *models.FinancialStatement) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if err := stmt.Validate(); err != nil {
		return err
	}
	if stmt.CompanyID == "" || stmt.Period == "" {
		return fmt.Errorf("statement needs a company id and period to be stored")
	}

	data, err := json.Marshal(stmt)
	if err != nil {
		return fmt.Errorf("failed to marshal statement: %w", err)
	}

	query := `
		INSERT INTO statements (company_id, period, statement_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, period)
		DO UPDATE SET
			statement_json = EXCLUDED.statement_json,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := pool.Exec(ctx, query, stmt.CompanyID, stmt.Period, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save statement %s %s: %w", stmt.CompanyID, stmt.Period, err)
	}
	return nil
}

// SaveStatements upserts a history in order.
func (r *StatementRepo) SaveStatements(ctx context.Context, stmts []*models.FinancialStatement) error {
	for _, s := range stmts {
		if err := r.SaveStatement(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// GetStatement loads one statement by company and period.
func (r *StatementRepo) GetStatement(ctx context.Context, companyID, period string) (*models.FinancialStatement, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var data []byte
	err := pool.QueryRow(ctx,
		`SELECT statement_json FROM statements WHERE company_id = $1 AND period = $2`,
		companyID, period).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("statement %s %s: %w", companyID, period, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load statement %s %s: %w", companyID, period, err)
	}

	var stmt models.FinancialStatement
	if err := json.Unmarshal(data, &stmt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal statement: %w", err)
	}
	return &stmt, nil
}

// ListByCompany loads a company's statements ordered by period ascending.
// A company with no rows is ErrNotFound.
func (r *StatementRepo) ListByCompany(ctx context.Context, companyID string) ([]*models.FinancialStatement, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx,
		`SELECT statement_json FROM statements WHERE company_id = $1 ORDER BY period`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load statements for %s: %w", companyID, err)
	}
	defer rows.Close()

	var stmts []*models.FinancialStatement
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan statement row: %w", err)
		}
		var stmt models.FinancialStatement
		if err := json.Unmarshal(data, &stmt); err != nil {
			return nil, fmt.Errorf("failed to unmarshal statement: %w", err)
		}
		stmts = append(stmts, &stmt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading statement rows: %w", err)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("no statements for company %s: %w", companyID, models.ErrNotFound)
	}
	return stmts, nil
}
