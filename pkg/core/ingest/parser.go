// Package ingest turns raw statement files into validated models. Upstream
// producers hand-edit these files often enough that the parse chain tolerates
// the usual defects: a strict JSON pass first, then mechanical repair, then
// Hjson for comments and unquoted keys.
package ingest

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/go-playground/validator/v10"
	hjson "github.com/hjson/hjson-go/v4"

	"finrisk/pkg/logger"
	"finrisk/pkg/models"
)

// Parser decodes and validates financial statements.
type Parser struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewParser(log *logger.Logger) *Parser {
	if log == nil {
		log = logger.Nop()
	}
	return &Parser{
		validate: validator.New(),
		log:      log,
	}
}

// ParseStatement decodes a single statement object.
func (p *Parser) ParseStatement(data []byte) (*models.FinancialStatement, error) {
	var stmt models.FinancialStatement
	if err := p.smartParse(data, &stmt); err != nil {
		return nil, err
	}
	if err := p.check(&stmt); err != nil {
		return nil, err
	}
	return &stmt, nil
}

// ParseStatements decodes a statement history. A bare object reads as a
// one-statement history.
func (p *Parser) ParseStatements(data []byte) ([]*models.FinancialStatement, error) {
	var stmts []*models.FinancialStatement
	if err := p.smartParse(data, &stmts); err != nil {
		stmt, serr := p.ParseStatement(data)
		if serr != nil {
			return nil, err
		}
		return []*models.FinancialStatement{stmt}, nil
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("statement file holds no statements")
	}
	for _, s := range stmts {
		if err := p.check(s); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

// smartParse tries strict JSON, then mechanical repair, then Hjson.
func (p *Parser) smartParse(data []byte, out interface{}) error {
	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(data)); err == nil {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			p.log.Warn("statement input needed JSON repair")
			return nil
		}
	}

	if err := hjson.Unmarshal(data, out); err == nil {
		p.log.Warn("statement input parsed as Hjson")
		return nil
	}

	return fmt.Errorf("statement input is not parseable as JSON, repaired JSON, or Hjson")
}

// check enforces the statement contract: mandatory balance-sheet fields
// present, and a period label to key the record by.
func (p *Parser) check(stmt *models.FinancialStatement) error {
	if err := p.validate.Struct(stmt); err != nil {
		return fmt.Errorf("statement %q %q: %v: %w",
			stmt.CompanyID, stmt.Period, err, models.ErrMissingRequiredField)
	}
	if stmt.Period == "" {
		return fmt.Errorf("statement for %q has no period label", stmt.CompanyID)
	}
	return nil
}
