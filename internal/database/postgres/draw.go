package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/repository"
)

type drawRepository struct {
	db *pgxpool.Pool
}

// NewDrawRepository creates a new PostgreSQL draw repository
func NewDrawRepository(db *pgxpool.Pool) repository.Draw {
	return &drawRepository{db: db}
}

const drawColumns = `draw_id, name, description, start_date, end_date, status, winning_numbers, created_at, updated_at`

const resultColumns = `draw_id, winning_numbers, settled_at, randomness_provenance, verification_status,
	submission_id, attestation_ref, verification_updated_at`

func scanDraw(row pgx.Row) (*domain.Draw, error) {
	var (
		d       domain.Draw
		status  string
		numbers []int32
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.StartDate, &d.EndDate,
		&status, &numbers, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Status = domain.DrawStatus(status)
	d.WinningNumbers = fromInt32s(numbers)
	return &d, nil
}

func scanResult(row pgx.Row) (*domain.DrawResult, error) {
	var (
		r              domain.DrawResult
		numbers        []int32
		status         string
		submissionID   pgtype.Text
		attestationRef pgtype.Text
		updatedAt      pgtype.Timestamptz
	)
	if err := row.Scan(&r.DrawID, &numbers, &r.Timestamp, &r.RandomnessProvenance, &status,
		&submissionID, &attestationRef, &updatedAt); err != nil {
		return nil, err
	}
	r.WinningNumbers = fromInt32s(numbers)
	r.VerificationStatus = domain.VerificationStatus(status)
	r.SubmissionID = submissionID.String
	r.AttestationRef = attestationRef.String
	r.VerificationUpdatedAt = ptrTime(updatedAt)
	return &r, nil
}

func (r *drawRepository) CreateDraw(ctx context.Context, draw *domain.Draw) error {
	query := `
		INSERT INTO draws (` + drawColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	numbers, err := toInt32s(draw.WinningNumbers)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query,
		draw.ID, draw.Name, draw.Description, draw.StartDate, draw.EndDate,
		string(draw.Status), numbers, draw.CreatedAt, draw.UpdatedAt)
	if err != nil {
		if isPgError(err, PgErrorCodeUniqueViolation) {
			return fmt.Errorf("%w: draw %s already exists", domain.ErrConflict, draw.ID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateDraw, err)
	}
	return nil
}

func (r *drawRepository) GetDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE draw_id = $1`

	d, err := scanDraw(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDraw, err)
	}
	return d, nil
}

func (r *drawRepository) ListDraws(ctx context.Context, filter repository.DrawFilter) ([]*domain.Draw, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + drawColumns + ` FROM draws WHERE 1=1`)

	args := []interface{}{}
	argNum := 1

	if filter.Status != nil {
		fmt.Fprintf(&queryBuilder, " AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, draw_id::text ASC")

	if filter.Limit > 0 {
		fmt.Fprintf(&queryBuilder, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}
	if filter.Offset > 0 {
		fmt.Fprintf(&queryBuilder, " OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
	}
	defer rows.Close()

	draws := []*domain.Draw{}
	for rows.Next() {
		d, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
		}
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
	}
	return draws, nil
}

func (r *drawRepository) UpdateDrawDetailsIfMatches(ctx context.Context, draw *domain.Draw, expected domain.DrawStatus) (int64, error) {
	query := `
		UPDATE draws
		SET name = $2, description = $3, start_date = $4, end_date = $5, updated_at = $6
		WHERE draw_id = $1 AND status = $7
	`
	result, err := r.db.Exec(ctx, query,
		draw.ID, draw.Name, draw.Description, draw.StartDate, draw.EndDate, draw.UpdatedAt, string(expected))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateDraw, err)
	}
	return result.RowsAffected(), nil
}

func (r *drawRepository) DeleteDrawIfMatches(ctx context.Context, id uuid.UUID, expected domain.DrawStatus) (int64, error) {
	query := `DELETE FROM draws WHERE draw_id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, string(expected))
	if err != nil {
		// draw_results references the draw: a settled draw is never deleted
		if isPgError(err, PgErrorCodeForeignKeyViolation) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteDraw, err)
	}
	return result.RowsAffected(), nil
}

func (r *drawRepository) UpdateDrawStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.DrawStatus, at time.Time) (int64, error) {
	query := `
		UPDATE draws
		SET status = $3, updated_at = $4
		WHERE draw_id = $1 AND status = $2
	`
	result, err := r.db.Exec(ctx, query, id, string(expected), string(next), at)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateDraw, err)
	}
	return result.RowsAffected(), nil
}

func (r *drawRepository) CompleteDrawIfMatches(ctx context.Context, res *domain.DrawResult, expected domain.DrawStatus) (int64, error) {
	numbers, err := toInt32s(res.WinningNumbers)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	// Row lock on the draw serialises racing completions; losers re-check
	// the status after the winner commits and match zero rows.
	updated, err := tx.Exec(ctx, `
		UPDATE draws
		SET status = $3, winning_numbers = $4, updated_at = $5
		WHERE draw_id = $1 AND status = $2
	`, res.DrawID, string(expected), string(domain.DrawStatusCompleted), numbers, res.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCompleteDraw, err)
	}
	if updated.RowsAffected() == 0 {
		return 0, nil
	}

	inserted, err := tx.Exec(ctx, `
		INSERT INTO draw_results (`+resultColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (draw_id) DO NOTHING
	`, res.DrawID, numbers, res.Timestamp, res.RandomnessProvenance, string(res.VerificationStatus),
		nullText(res.SubmissionID), nullText(res.AttestationRef), res.VerificationUpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToInsertResult, err)
	}
	if inserted.RowsAffected() == 0 {
		return 0, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return 1, nil
}

func (r *drawRepository) GetDrawResult(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error) {
	query := `SELECT ` + resultColumns + ` FROM draw_results WHERE draw_id = $1`

	res, err := scanResult(r.db.QueryRow(ctx, query, drawID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetResult, err)
	}
	return res, nil
}

func (r *drawRepository) UpdateVerificationIfMatches(ctx context.Context, drawID uuid.UUID, expected domain.VerificationStatus, update repository.VerificationUpdate) (int64, error) {
	query := `
		UPDATE draw_results
		SET verification_status = $3,
			submission_id = COALESCE($4, submission_id),
			attestation_ref = COALESCE($5, attestation_ref),
			verification_updated_at = $6
		WHERE draw_id = $1 AND verification_status = $2
	`
	result, err := r.db.Exec(ctx, query, drawID, string(expected), string(update.Status),
		nullText(update.SubmissionID), nullText(update.AttestationRef), update.At)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateVerification, err)
	}
	return result.RowsAffected(), nil
}

func (r *drawRepository) ListResultsByVerification(ctx context.Context, status domain.VerificationStatus, limit int) ([]*domain.DrawResult, error) {
	query := `SELECT ` + resultColumns + `
		FROM draw_results
		WHERE verification_status = $1
		ORDER BY settled_at ASC`
	args := []interface{}{string(status)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListResults, err)
	}
	defer rows.Close()

	results := []*domain.DrawResult{}
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListResults, err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListResults, err)
	}
	return results, nil
}
