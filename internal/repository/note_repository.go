package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marknotes/notes-service/internal/domain"
)

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository returns a Postgres-backed implementation.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

const noteColumns = `id, owner_id, title, content, note_type, encrypted_content, password_hash, self_destruct_at, version, created_at, updated_at`

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	const query = `
        INSERT INTO notes (` + noteColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.OwnerID,
		note.Title,
		note.Content,
		note.Type,
		note.EncryptedContent,
		note.PasswordHash,
		note.SelfDestructAt,
		note.Version,
		note.CreatedAt,
		note.UpdatedAt,
	)
	return err
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	const query = `
        UPDATE notes
        SET title=$1, content=$2, encrypted_content=$3, password_hash=$4, self_destruct_at=$5,
            version=version+1, updated_at=$6
        WHERE id=$7 AND version=$8`

	cmd, err := r.pool.Exec(ctx, query,
		note.Title,
		note.Content,
		note.EncryptedContent,
		note.PasswordHash,
		note.SelfDestructAt,
		note.UpdatedAt,
		note.ID,
		note.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, note.ID); err != nil {
			return err
		}
		return ErrVersionConflict
	}
	note.Version++
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	const query = `SELECT ` + noteColumns + ` FROM notes WHERE id=$1`

	var note domain.Note
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.Type,
		&note.EncryptedContent,
		&note.PasswordHash,
		&note.SelfDestructAt,
		&note.Version,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	const query = `SELECT ` + noteColumns + ` FROM notes WHERE owner_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(
			&note.ID,
			&note.OwnerID,
			&note.Title,
			&note.Content,
			&note.Type,
			&note.EncryptedContent,
			&note.PasswordHash,
			&note.SelfDestructAt,
			&note.Version,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id=$1`, id)
	return err
}

func (r *noteRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE owner_id=$1`, ownerID)
	return err
}

func (r *noteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM notes WHERE note_type=$1 AND self_destruct_at IS NOT NULL AND self_destruct_at < $2`

	cmd, err := r.pool.Exec(ctx, query, domain.NoteTypeSelfDestructing, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
