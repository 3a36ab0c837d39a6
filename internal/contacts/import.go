package contacts

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Row is one loosely-typed record from an imported spreadsheet, keyed by
// header text exactly as it appeared in the file.
type Row map[string]string

// ImportSummary reports the outcome of a bulk import. TotalParsed counts
// every row presented to the reconciler, including skipped ones.
type ImportSummary struct {
	BatchID     string `json:"batch_id"`
	Inserted    int    `json:"inserted"`
	Updated     int    `json:"updated"`
	Skipped     int    `json:"skipped"`
	TotalParsed int    `json:"total_parsed"`
}

// Accepted header aliases for the required name fields, in priority order:
// snake_case, camelCase, then the human-readable export header.
var (
	firstNameAliases = []string{"first_name", "firstName", "First Name"}
	lastNameAliases  = []string{"last_name", "lastName", "Last Name"}
	idAliases        = []string{"id", "ID", "Id"}
)

// lookup returns the first value found for the given keys. Exact matches
// win over case-insensitive ones so the priority order holds even when a
// file carries several variants. When several headers fold to the same
// key, the lexicographically smallest header wins; map iteration order
// must never decide which column is read.
func lookup(row Row, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			return v, true
		}
	}
	for _, k := range keys {
		var match string
		found := false
		for header := range row {
			if !strings.EqualFold(header, k) {
				continue
			}
			if !found || header < match {
				match = header
				found = true
			}
		}
		if found {
			return row[match], true
		}
	}
	return "", false
}

// toText maps an empty cell to NULL, anything else to its trimmed text.
func toText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// rowRecord is a normalized import row ready for the upsert decision.
type rowRecord struct {
	id    *int64
	first string
	last  string

	email   pgtype.Text
	phone   pgtype.Text
	company pgtype.Text
	notes   pgtype.Text
}

// normalizeRow resolves aliases and types for one import row.
//
// A row whose first or last name cannot be resolved is reported as
// skippable (ok=false), the sole tolerated per-row condition. A non-empty
// id that does not parse as an integer is a real fault and aborts the
// batch, so it is returned as an error instead.
func normalizeRow(row Row) (rec rowRecord, ok bool, err error) {
	first, _ := lookup(row, firstNameAliases...)
	last, _ := lookup(row, lastNameAliases...)

	rec.first = strings.TrimSpace(first)
	rec.last = strings.TrimSpace(last)
	if rec.first == "" || rec.last == "" {
		return rowRecord{}, false, nil
	}

	if raw, found := lookup(row, idAliases...); found && strings.TrimSpace(raw) != "" {
		id, parseErr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if parseErr != nil {
			return rowRecord{}, false, fmt.Errorf("id %q is not an integer", raw)
		}
		rec.id = &id
	}

	email, _ := lookup(row, "email")
	phone, _ := lookup(row, "phone")
	company, _ := lookup(row, "company")
	notes, _ := lookup(row, "notes")
	rec.email = toText(email)
	rec.phone = toText(phone)
	rec.company = toText(company)
	rec.notes = toText(notes)

	return rec, true, nil
}

// rowExists reports whether a contact with the given id is present.
func rowExists(ctx context.Context, db DBTX, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM contacts WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// updateRow replaces every mutable field of an existing contact.
func updateRow(ctx context.Context, db DBTX, rec rowRecord) error {
	_, err := db.Exec(ctx,
		`UPDATE contacts
		 SET first_name = $1, last_name = $2, email = $3, phone = $4,
		     company = $5, notes = $6, updated_at = now()
		 WHERE id = $7`,
		rec.first, rec.last, rec.email, rec.phone, rec.company, rec.notes, *rec.id,
	)
	return err
}

// insertRow inserts a contact, keeping the supplied id when the record
// carries one.
func insertRow(ctx context.Context, db DBTX, rec rowRecord) error {
	if rec.id != nil {
		_, err := db.Exec(ctx,
			`INSERT INTO contacts (id, first_name, last_name, email, phone, company, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			*rec.id, rec.first, rec.last, rec.email, rec.phone, rec.company, rec.notes,
		)
		return err
	}

	_, err := db.Exec(ctx,
		`INSERT INTO contacts (first_name, last_name, email, phone, company, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.first, rec.last, rec.email, rec.phone, rec.company, rec.notes,
	)
	return err
}

// rowOutcome classifies what the reconciler did with one row.
type rowOutcome int

const (
	rowInserted rowOutcome = iota
	rowUpdated
	rowSkipped
)

// reconcileRow applies one normalized row: update when the supplied id
// already exists, insert otherwise. suppliedID reports an insert that
// bypassed the identity sequence by keeping the row's own id.
func reconcileRow(ctx context.Context, db DBTX, rec rowRecord) (outcome rowOutcome, suppliedID bool, err error) {
	if rec.id == nil {
		if err := insertRow(ctx, db, rec); err != nil {
			return 0, false, fmt.Errorf("insert: %w", err)
		}
		return rowInserted, false, nil
	}

	exists, err := rowExists(ctx, db, *rec.id)
	if err != nil {
		return 0, false, fmt.Errorf("lookup id %d: %w", *rec.id, err)
	}

	if exists {
		if err := updateRow(ctx, db, rec); err != nil {
			return 0, false, fmt.Errorf("update id %d: %w", *rec.id, err)
		}
		return rowUpdated, false, nil
	}

	// Insert with the supplied id so re-imports of a previous export keep
	// the caller's identifier space intact.
	if err := insertRow(ctx, db, rec); err != nil {
		return 0, false, fmt.Errorf("insert id %d: %w", *rec.id, err)
	}
	return rowInserted, true, nil
}

// reconcile drives every row through normalization and reconcileRow,
// aggregating the per-row outcomes into sum. It runs against any DBTX;
// Import supplies the batch transaction.
func reconcile(ctx context.Context, db DBTX, rows []Row, sum *ImportSummary) (suppliedID bool, err error) {
	for i, row := range rows {
		rec, ok, err := normalizeRow(row)
		if err != nil {
			return false, fmt.Errorf("row %d: %w", i+1, err)
		}

		outcome := rowSkipped
		if ok {
			var supplied bool
			outcome, supplied, err = reconcileRow(ctx, db, rec)
			if err != nil {
				return false, fmt.Errorf("row %d: %w", i+1, err)
			}
			if supplied {
				suppliedID = true
			}
		}

		switch outcome {
		case rowInserted:
			sum.Inserted++
		case rowUpdated:
			sum.Updated++
		case rowSkipped:
			sum.Skipped++
		}
	}
	return suppliedID, nil
}

// Import reconciles a batch of spreadsheet rows against the store inside a
// single transaction.
//
// Per row: a missing name skips the row (counted, never an error); a row
// with an id updates the existing record or inserts a new one preserving
// the caller's id; a row without an id inserts with an auto-assigned id.
// Any other failure rolls back every change from this call and surfaces as
// an *ImportError; there is no partial commit.
func (s *Store) Import(ctx context.Context, rows []Row) (ImportSummary, error) {
	sum := ImportSummary{
		BatchID:     uuid.New().String(),
		TotalParsed: len(rows),
	}
	fail := func(err error) (ImportSummary, error) {
		return ImportSummary{BatchID: sum.BatchID, TotalParsed: len(rows)},
			&ImportError{BatchID: sum.BatchID, Err: err}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fail(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	suppliedID, err := reconcile(ctx, tx, rows, &sum)
	if err != nil {
		return fail(err)
	}

	// Explicit-id inserts bypass the identity sequence; advance it past
	// MAX(id) so later auto-assigned ids cannot collide.
	if suppliedID {
		_, err := tx.Exec(ctx,
			"SELECT setval(pg_get_serial_sequence('contacts', 'id'), (SELECT COALESCE(MAX(id), 1) FROM contacts))")
		if err != nil {
			return fail(fmt.Errorf("advance id sequence: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fail(fmt.Errorf("commit: %w", err))
	}

	return sum, nil
}
