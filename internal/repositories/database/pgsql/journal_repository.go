package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openledgerhq/erp_backend/internal/apperrors"
	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
	"github.com/openledgerhq/erp_backend/internal/models"
	"github.com/openledgerhq/erp_backend/internal/utils/mapping"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal line data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalLineColumns = `
	line_id, account_code, account_name, debit_amount, credit_amount,
	transaction_date, description, transaction_type, reference_id, reference_type,
	status, created_at, created_by, last_updated_at, last_updated_by`

// SaveLines persists a batch of journal lines within one DB transaction so the
// write is all-or-nothing. Posted lines are never updated or deleted.
func (r *PgxJournalRepository) SaveLines(ctx context.Context, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO journal_lines (
			line_id, account_code, account_name, debit_amount, credit_amount,
			transaction_date, description, transaction_type, reference_id, reference_type,
			status, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query,
			m.LineID,
			m.AccountCode,
			m.AccountName,
			m.DebitAmount,
			m.CreditAmount,
			m.TransactionDate,
			m.Description,
			m.TransactionType,
			m.ReferenceID,
			m.ReferenceType,
			m.Status,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute journal line batch", err)
	}

	return r.Commit(ctx, tx)
}

// FindLinesByReference retrieves all lines posted for an originating domain record.
func (r *PgxJournalRepository) FindLinesByReference(ctx context.Context, referenceID, referenceType string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + journalLineColumns + `
		FROM journal_lines
		WHERE reference_id = $1 AND reference_type = $2
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, referenceID, referenceType)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines for reference "+referenceID, err)
	}
	defer rows.Close()

	return scanJournalLines(rows)
}

// ListLines retrieves a page of posted lines, newest first.
func (r *PgxJournalRepository) ListLines(ctx context.Context, limit, offset int) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + journalLineColumns + `
		FROM journal_lines
		ORDER BY created_at DESC, line_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list journal lines", err)
	}
	defer rows.Close()

	return scanJournalLines(rows)
}

// GetTrialBalance derives per-account debit/credit totals by summation.
func (r *PgxJournalRepository) GetTrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT account_code, account_name,
		       COALESCE(SUM(debit_amount), 0) AS total_debit,
		       COALESCE(SUM(credit_amount), 0) AS total_credit
		FROM journal_lines
		GROUP BY account_code, account_name
		ORDER BY account_code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountCode, &row.AccountName, &row.TotalDebit, &row.TotalCredit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}
	return result, nil
}

func scanJournalLines(rows pgx.Rows) ([]domain.JournalLine, error) {
	lines := []models.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		var refID, refType sql.NullString
		err := rows.Scan(
			&m.LineID,
			&m.AccountCode,
			&m.AccountName,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.TransactionDate,
			&m.Description,
			&m.TransactionType,
			&refID,
			&refType,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		if refID.Valid {
			m.ReferenceID = &refID.String
		}
		if refType.Valid {
			m.ReferenceType = &refType.String
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.JournalLine{}, nil
		}
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}
