package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/usecase"
)

// NumberGenerator implements usecase.NumberGenerator on document_sequences.
// The row lock taken by the upsert serializes concurrent callers until the
// surrounding transaction ends, so numbers are gap-free per sequence.
type NumberGenerator struct {
	db dbtx
}

// NewNumberGenerator creates a new NumberGenerator.
func NewNumberGenerator(pool *pgxpool.Pool) *NumberGenerator {
	return newNumberGenerator(pool)
}

func newNumberGenerator(db dbtx) *NumberGenerator {
	return &NumberGenerator{db: db}
}

// Next increments the sequence and formats it as "FA000001".
func (g *NumberGenerator) Next(ctx context.Context, tx usecase.Transaction, companyID, sequenceType string) (string, error) {
	var value int64
	err := conn(g.db, tx).QueryRow(ctx, `
		INSERT INTO document_sequences (company_id, sequence_type, last_value, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (company_id, sequence_type) DO UPDATE
		SET last_value = document_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value`,
		companyID, sequenceType,
	).Scan(&value)
	if err != nil {
		return "", storageErr("next document number", err)
	}

	return formatNumber(sequenceType, value), nil
}

func formatNumber(sequenceType string, value int64) string {
	prefix := strings.ToUpper(strings.TrimPrefix(sequenceType, "journal_"))
	return fmt.Sprintf("%s%06d", prefix, value)
}
