package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// PgxEntryRepository reads and mutates receipts and bank transactions.
//
// The two tables resolve ownership differently: receipts carry user_id
// directly, bank transactions only through statement -> document -> user.
// Every bank-transaction query embeds that join so a row owned by another
// user is indistinguishable from a missing row.
type PgxEntryRepository struct {
	BaseRepository
}

func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const receiptColumns = `r.receipt_id, r.user_id, r.document_id, r.merchant_name, r.description,
	r.amount, r.currency, r.receipt_date, r.category_id, r.business_id, r.flags,
	r.created_at, r.created_by, r.last_updated_at, r.last_updated_by`

const bankTxnColumns = `bt.transaction_id, bt.statement_id, bt.merchant_name, bt.description,
	bt.amount, bt.currency, bt.transaction_date, bt.category_id, bt.business_id, bt.flags,
	bt.created_at, bt.created_by, bt.last_updated_at, bt.last_updated_by`

// bankTxnOwnershipJoin resolves the owning user of a bank transaction.
const bankTxnOwnershipJoin = `
	JOIN bank_statements bs ON bs.statement_id = bt.statement_id
	JOIN documents d ON d.document_id = bs.document_id`

func scanReceipt(row pgx.Row) (models.Receipt, error) {
	var m models.Receipt
	err := row.Scan(
		&m.ReceiptID, &m.UserID, &m.DocumentID, &m.MerchantName, &m.Description,
		&m.Amount, &m.Currency, &m.ReceiptDate, &m.CategoryID, &m.BusinessID, &m.Flags,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanBankTransaction(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.TransactionID, &m.StatementID, &m.MerchantName, &m.Description,
		&m.Amount, &m.Currency, &m.TransactionDate, &m.CategoryID, &m.BusinessID, &m.Flags,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindEntryByID retrieves a single entry of the given kind owned by userID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, userID string, kind domain.EntryKind, entryID string) (*domain.Entry, error) {
	if kind == domain.KindReceipt {
		query := `SELECT ` + receiptColumns + `
			FROM receipts r
			WHERE r.receipt_id = $1 AND r.user_id = $2;`
		m, err := scanReceipt(r.Pool.QueryRow(ctx, query, entryID, userID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.ErrNotFound
			}
			return nil, fmt.Errorf("failed to find receipt %s: %w", entryID, err)
		}
		entry := mapping.ToDomainEntryFromReceipt(m)
		return &entry, nil
	}

	query := `SELECT ` + bankTxnColumns + `
		FROM bank_transactions bt` + bankTxnOwnershipJoin + `
		WHERE bt.transaction_id = $1 AND d.user_id = $2;`
	m, err := scanBankTransaction(r.Pool.QueryRow(ctx, query, entryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank transaction %s: %w", entryID, err)
	}
	entry := mapping.ToDomainEntryFromBankTransaction(m, userID)
	return &entry, nil
}

// FindDuplicateCandidates returns entries of the given kind similar to the
// merchant name, dated within the window, not already flagged as duplicates.
// Ordered by trigram similarity descending, then by absolute amount
// difference so an exact-amount match wins between equally similar merchants.
func (r *PgxEntryRepository) FindDuplicateCandidates(ctx context.Context, userID string, kind domain.EntryKind, merchantName string, amount decimal.Decimal, from, to time.Time, threshold float64, excludeID string, limit int) ([]domain.SimilarEntry, error) {
	if kind == domain.KindReceipt {
		query := `SELECT ` + receiptColumns + `, similarity(r.merchant_name, $1) AS sim
			FROM receipts r
			WHERE r.user_id = $2
			  AND r.merchant_name IS NOT NULL
			  AND similarity(r.merchant_name, $1) > $3
			  AND r.receipt_date BETWEEN $4 AND $5
			  AND r.receipt_id <> $6
			  AND COALESCE((r.flags->>'isDuplicate')::boolean, false) = false
			ORDER BY sim DESC, ABS(ABS(r.amount) - $7) ASC
			LIMIT $8;`
		rows, err := r.Pool.Query(ctx, query, merchantName, userID, threshold, from, to, excludeID, amount.Abs(), limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query receipt duplicate candidates: %w", err)
		}
		defer rows.Close()
		return collectSimilarReceipts(rows)
	}

	query := `SELECT ` + bankTxnColumns + `, similarity(bt.merchant_name, $1) AS sim
		FROM bank_transactions bt` + bankTxnOwnershipJoin + `
		WHERE d.user_id = $2
		  AND bt.merchant_name IS NOT NULL
		  AND similarity(bt.merchant_name, $1) > $3
		  AND bt.transaction_date BETWEEN $4 AND $5
		  AND bt.transaction_id <> $6
		  AND COALESCE((bt.flags->>'isDuplicate')::boolean, false) = false
		ORDER BY sim DESC, ABS(ABS(bt.amount) - $7) ASC
		LIMIT $8;`
	rows, err := r.Pool.Query(ctx, query, merchantName, userID, threshold, from, to, excludeID, amount.Abs(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transaction duplicate candidates: %w", err)
	}
	defer rows.Close()
	return collectSimilarBankTransactions(rows, userID)
}

// FindOppositeAmountCandidates returns the user's bank transactions whose
// amount cancels the probe amount within tolerance, dated within the window,
// excluding rows already classified as transfers.
func (r *PgxEntryRepository) FindOppositeAmountCandidates(ctx context.Context, userID string, amount decimal.Decimal, date time.Time, from, to time.Time, tolerance decimal.Decimal, excludeID string, limit int) ([]domain.Entry, error) {
	query := `SELECT ` + bankTxnColumns + `
		FROM bank_transactions bt` + bankTxnOwnershipJoin + `
		WHERE d.user_id = $1
		  AND ABS(bt.amount + $2) <= $3
		  AND bt.transaction_date BETWEEN $4 AND $5
		  AND bt.transaction_id <> $6
		  AND COALESCE((bt.flags->>'isInternalTransfer')::boolean, false) = false
		ORDER BY ABS(bt.amount + $2) ASC, ABS(EXTRACT(EPOCH FROM (bt.transaction_date - $7::timestamptz))) ASC
		LIMIT $8;`
	rows, err := r.Pool.Query(ctx, query, userID, amount, tolerance, from, to, excludeID, date, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query opposite amount candidates: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BankTransaction, error) {
		return scanBankTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan opposite amount candidates: %w", err)
	}

	entries := make([]domain.Entry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainEntryFromBankTransaction(m, userID)
	}
	return entries, nil
}

// FindSimilarEntries returns entries of the given kind with merchant names
// similar to merchantName within the window, ordered by similarity.
func (r *PgxEntryRepository) FindSimilarEntries(ctx context.Context, userID string, kind domain.EntryKind, merchantName string, from, to time.Time, threshold float64, excludeID string, limit int) ([]domain.SimilarEntry, error) {
	if kind == domain.KindReceipt {
		query := `SELECT ` + receiptColumns + `, similarity(r.merchant_name, $1) AS sim
			FROM receipts r
			WHERE r.user_id = $2
			  AND r.merchant_name IS NOT NULL
			  AND similarity(r.merchant_name, $1) > $3
			  AND r.receipt_date BETWEEN $4 AND $5
			  AND r.receipt_id <> $6
			ORDER BY sim DESC
			LIMIT $7;`
		rows, err := r.Pool.Query(ctx, query, merchantName, userID, threshold, from, to, excludeID, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query similar receipts: %w", err)
		}
		defer rows.Close()
		return collectSimilarReceipts(rows)
	}

	query := `SELECT ` + bankTxnColumns + `, similarity(bt.merchant_name, $1) AS sim
		FROM bank_transactions bt` + bankTxnOwnershipJoin + `
		WHERE d.user_id = $2
		  AND bt.merchant_name IS NOT NULL
		  AND similarity(bt.merchant_name, $1) > $3
		  AND bt.transaction_date BETWEEN $4 AND $5
		  AND bt.transaction_id <> $6
		ORDER BY sim DESC
		LIMIT $7;`
	rows, err := r.Pool.Query(ctx, query, merchantName, userID, threshold, from, to, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar bank transactions: %w", err)
	}
	defer rows.Close()
	return collectSimilarBankTransactions(rows, userID)
}

// ListTransferScanCandidates returns the user's bank transactions carrying no
// transfer flag and no exclusion, oldest first.
func (r *PgxEntryRepository) ListTransferScanCandidates(ctx context.Context, userID string) ([]domain.Entry, error) {
	query := `SELECT ` + bankTxnColumns + `
		FROM bank_transactions bt` + bankTxnOwnershipJoin + `
		WHERE d.user_id = $1
		  AND COALESCE((bt.flags->>'isInternalTransfer')::boolean, false) = false
		  AND COALESCE((bt.flags->>'isExcludedFromTotals')::boolean, false) = false
		ORDER BY bt.transaction_date ASC NULLS LAST;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer scan candidates: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BankTransaction, error) {
		return scanBankTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transfer scan candidates: %w", err)
	}

	entries := make([]domain.Entry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainEntryFromBankTransaction(m, userID)
	}
	return entries, nil
}

// GetFlags loads the current flag bag of an entry owned by userID.
func (r *PgxEntryRepository) GetFlags(ctx context.Context, userID string, kind domain.EntryKind, entryID string) (*domain.TransactionFlags, error) {
	var query string
	if kind == domain.KindReceipt {
		query = `SELECT r.flags FROM receipts r WHERE r.receipt_id = $1 AND r.user_id = $2;`
	} else {
		query = `SELECT bt.flags FROM bank_transactions bt` + bankTxnOwnershipJoin + `
			WHERE bt.transaction_id = $1 AND d.user_id = $2;`
	}

	var m models.TransactionFlags
	if err := r.Pool.QueryRow(ctx, query, entryID, userID).Scan(&m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load flags for %s %s: %w", kind, entryID, err)
	}
	flags := mapping.ToDomainFlags(m)
	return &flags, nil
}

// UpdateFlags persists a full flag bag for an entry owned by userID. Zero
// matched rows reports (false, nil): unknown ids and foreign rows are silent
// no-ops by contract.
func (r *PgxEntryRepository) UpdateFlags(ctx context.Context, userID string, kind domain.EntryKind, entryID string, flags domain.TransactionFlags) (bool, error) {
	m := mapping.ToModelFlags(flags)

	var query string
	if kind == domain.KindReceipt {
		query = `UPDATE receipts SET flags = $3, last_updated_at = NOW(), last_updated_by = $2
			WHERE receipt_id = $1 AND user_id = $2;`
	} else {
		query = `UPDATE bank_transactions bt SET flags = $3, last_updated_at = NOW(), last_updated_by = $2
			FROM bank_statements bs
			JOIN documents d ON d.document_id = bs.document_id
			WHERE bt.statement_id = bs.statement_id
			  AND bt.transaction_id = $1
			  AND d.user_id = $2;`
	}

	tag, err := r.Pool.Exec(ctx, query, entryID, userID, m)
	if err != nil {
		return false, fmt.Errorf("failed to update flags for %s %s: %w", kind, entryID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateCategory assigns category/business to an entry owned by userID. Same
// zero-rows-is-no-op contract as UpdateFlags.
func (r *PgxEntryRepository) UpdateCategory(ctx context.Context, userID string, kind domain.EntryKind, entryID string, categoryID string, businessID *string) (bool, error) {
	var query string
	if kind == domain.KindReceipt {
		query = `UPDATE receipts SET category_id = $3, business_id = $4, last_updated_at = NOW(), last_updated_by = $2
			WHERE receipt_id = $1 AND user_id = $2;`
	} else {
		query = `UPDATE bank_transactions bt SET category_id = $3, business_id = $4, last_updated_at = NOW(), last_updated_by = $2
			FROM bank_statements bs
			JOIN documents d ON d.document_id = bs.document_id
			WHERE bt.statement_id = bs.statement_id
			  AND bt.transaction_id = $1
			  AND d.user_id = $2;`
	}

	tag, err := r.Pool.Exec(ctx, query, entryID, userID, categoryID, businessID)
	if err != nil {
		return false, fmt.Errorf("failed to update category for %s %s: %w", kind, entryID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func collectSimilarReceipts(rows pgx.Rows) ([]domain.SimilarEntry, error) {
	type receiptWithSim struct {
		m   models.Receipt
		sim float64
	}
	collected, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (receiptWithSim, error) {
		var r receiptWithSim
		err := row.Scan(
			&r.m.ReceiptID, &r.m.UserID, &r.m.DocumentID, &r.m.MerchantName, &r.m.Description,
			&r.m.Amount, &r.m.Currency, &r.m.ReceiptDate, &r.m.CategoryID, &r.m.BusinessID, &r.m.Flags,
			&r.m.CreatedAt, &r.m.CreatedBy, &r.m.LastUpdatedAt, &r.m.LastUpdatedBy,
			&r.sim,
		)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan similar receipts: %w", err)
	}

	entries := make([]domain.SimilarEntry, len(collected))
	for i, c := range collected {
		entries[i] = domain.SimilarEntry{
			Entry:      mapping.ToDomainEntryFromReceipt(c.m),
			Similarity: c.sim,
		}
	}
	return entries, nil
}

func collectSimilarBankTransactions(rows pgx.Rows, ownerID string) ([]domain.SimilarEntry, error) {
	type txnWithSim struct {
		m   models.BankTransaction
		sim float64
	}
	collected, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (txnWithSim, error) {
		var t txnWithSim
		err := row.Scan(
			&t.m.TransactionID, &t.m.StatementID, &t.m.MerchantName, &t.m.Description,
			&t.m.Amount, &t.m.Currency, &t.m.TransactionDate, &t.m.CategoryID, &t.m.BusinessID, &t.m.Flags,
			&t.m.CreatedAt, &t.m.CreatedBy, &t.m.LastUpdatedAt, &t.m.LastUpdatedBy,
			&t.sim,
		)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan similar bank transactions: %w", err)
	}

	entries := make([]domain.SimilarEntry, len(collected))
	for i, c := range collected {
		entries[i] = domain.SimilarEntry{
			Entry:      mapping.ToDomainEntryFromBankTransaction(c.m, ownerID),
			Similarity: c.sim,
		}
	}
	return entries, nil
}
