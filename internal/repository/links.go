package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// linkTable is a many-to-many join table. Both columns cascade on delete.
type linkTable struct {
	name   string
	owner  string
	target string
}

var (
	legalAttorneys    = linkTable{"legal_matter_attorneys", "legal_matter_id", "stakeholder_id"}
	legalStakeholders = linkTable{"legal_matter_stakeholders", "legal_matter_id", "stakeholder_id"}
	legalProperties   = linkTable{"legal_matter_properties", "legal_matter_id", "real_estate_id"}
	noteParticipants  = linkTable{"note_participants", "note_id", "stakeholder_id"}
	noteStakeholders  = linkTable{"note_stakeholders", "note_id", "stakeholder_id"}
	noteLegalMatters  = linkTable{"note_legal_matters", "note_id", "legal_matter_id"}
	noteTasks         = linkTable{"note_tasks", "note_id", "task_id"}
	noteProperties    = linkTable{"note_properties", "note_id", "real_estate_id"}
)

// linkedTo returns a clause matching owners linked to a target id in any of the tables.
// ownerColumn is the owner's id column in the outer query.
func linkedTo(ownerColumn string, tables ...linkTable) string {
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s = ?)", ownerColumn, t.owner, t.name, t.target)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// withTx runs fn in a transaction, rolling back when it returns an error
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// replaceLinks makes ids the complete link set of owner. Duplicate ids are stored once.
func replaceLinks(ctx context.Context, tx *sql.Tx, t linkTable, owner int64, ids []int64) error {
	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.owner)
	if _, err := tx.ExecContext(ctx, del, owner); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t.name, err)
	}
	ins := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`, t.name, t.owner, t.target)
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.ExecContext(ctx, ins, owner, id); err != nil {
			return mapWriteError(err, "link "+t.name)
		}
	}
	return nil
}

// loadLinks returns the linked ids of each owner, ascending. Owners without
// links get an empty slice.
func (r *Repository) loadLinks(ctx context.Context, t linkTable, owners []int64) (map[int64][]int64, error) {
	links := make(map[int64][]int64, len(owners))
	if len(owners) == 0 {
		return links, nil
	}
	for _, id := range owners {
		links[id] = []int64{}
	}
	w := &where{}
	w.in(t.owner, anySlice(owners))
	query := fmt.Sprintf(`SELECT %s, %s FROM %s`, t.owner, t.target, t.name) + w.String() +
		fmt.Sprintf(` ORDER BY %s, %s`, t.owner, t.target)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", t.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, target int64
		if err := rows.Scan(&owner, &target); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.name, err)
		}
		links[owner] = append(links[owner], target)
	}
	return links, rows.Err()
}
