package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const noteColumns = `id, title, content, date, note_type, created_at, updated_at`

// NoteFilter narrows a note listing. StakeholderID matches participants and
// related stakeholders alike.
type NoteFilter struct {
	Query         string
	NoteType      models.NoteType
	StakeholderID int64
	LegalMatterID int64
	TaskID        int64
	PropertyID    int64
	Limit         int
	Offset        int
}

func scanNote(row scanner) (*models.Note, error) {
	n := &models.Note{}
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Date, &n.NoteType, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// CreateNote creates a new note with its links
func (r *Repository) CreateNote(ctx context.Context, n *models.Note) error {
	now := r.timestamp()
	query := `
		INSERT INTO notes (title, content, date, note_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, query, n.Title, n.Content, n.Date, n.NoteType, now, now).Scan(&n.ID); err != nil {
			return mapWriteError(err, "create note")
		}
		return saveNoteLinks(ctx, tx, n)
	})
	if err != nil {
		n.ID = 0
		return err
	}
	n.CreatedAt, n.UpdatedAt = now, now
	return nil
}

func saveNoteLinks(ctx context.Context, tx *sql.Tx, n *models.Note) error {
	sets := []struct {
		table linkTable
		ids   []int64
	}{
		{noteParticipants, n.ParticipantIDs},
		{noteStakeholders, n.StakeholderIDs},
		{noteLegalMatters, n.LegalMatterIDs},
		{noteTasks, n.TaskIDs},
		{noteProperties, n.PropertyIDs},
	}
	for _, set := range sets {
		if err := replaceLinks(ctx, tx, set.table, n.ID, set.ids); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) attachNoteLinks(ctx context.Context, notes []models.Note) error {
	ids := make([]int64, len(notes))
	for i := range notes {
		ids[i] = notes[i].ID
	}
	var sets [5]map[int64][]int64
	for i, t := range []linkTable{noteParticipants, noteStakeholders, noteLegalMatters, noteTasks, noteProperties} {
		links, err := r.loadLinks(ctx, t, ids)
		if err != nil {
			return err
		}
		sets[i] = links
	}
	for i := range notes {
		n := &notes[i]
		n.ParticipantIDs = sets[0][n.ID]
		n.StakeholderIDs = sets[1][n.ID]
		n.LegalMatterIDs = sets[2][n.ID]
		n.TaskIDs = sets[3][n.ID]
		n.PropertyIDs = sets[4][n.ID]
	}
	return nil
}

// GetNote retrieves a note by id
func (r *Repository) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	n, err := scanNote(r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	one := []models.Note{*n}
	if err := r.attachNoteLinks(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// ListNotes returns notes, newest first. Query matches title or content.
func (r *Repository) ListNotes(ctx context.Context, f NoteFilter) ([]models.Note, error) {
	w := &where{}
	if f.Query != "" {
		w.add("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", like(f.Query), like(f.Query))
	}
	if f.NoteType != "" {
		w.add("note_type = ?", f.NoteType)
	}
	if f.StakeholderID != 0 {
		w.add(linkedTo("id", noteParticipants, noteStakeholders), f.StakeholderID, f.StakeholderID)
	}
	if f.LegalMatterID != 0 {
		w.add(linkedTo("id", noteLegalMatters), f.LegalMatterID)
	}
	if f.TaskID != 0 {
		w.add(linkedTo("id", noteTasks), f.TaskID)
	}
	if f.PropertyID != 0 {
		w.add(linkedTo("id", noteProperties), f.PropertyID)
	}
	query := `SELECT ` + noteColumns + ` FROM notes` + w.String() + ` ORDER BY date DESC, id DESC` +
		w.page(f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if err := r.attachNoteLinks(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNote overwrites the editable fields and links of a note
func (r *Repository) UpdateNote(ctx context.Context, n *models.Note) error {
	now := r.timestamp()
	query := `
		UPDATE notes
		SET title = $1, content = $2, date = $3, note_type = $4, updated_at = $5
		WHERE id = $6`
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, n.Title, n.Content, n.Date, n.NoteType, now, n.ID)
		if err := expectRows(res, err, "update note"); err != nil {
			return err
		}
		return saveNoteLinks(ctx, tx, n)
	})
	if err != nil {
		return err
	}
	n.UpdatedAt = now
	return nil
}

// DeleteNote removes a note
func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	return expectRows(res, err, "delete note")
}
