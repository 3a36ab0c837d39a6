package contacts

import (
	"context"
	"fmt"
	"strings"
)

// mutableColumns lists the columns a Patch may touch, in the fixed order
// used when building UPDATE statements.
var mutableColumns = []string{"first_name", "last_name", "email", "phone", "company", "notes"}

// Patch is a partial update: only keys present in the map are written.
// An absent key keeps the stored value; an explicit JSON null clears an
// optional field. Unknown keys are ignored.
type Patch map[string]interface{}

// Create validates and inserts a new contact, returning the stored record
// with its assigned id and timestamps (read-after-write).
func (s *Store) Create(ctx context.Context, in NewContact) (Contact, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" {
		return Contact{}, &ValidationError{Field: "first_name", Reason: "required"}
	}
	if in.LastName == "" {
		return Contact{}, &ValidationError{Field: "last_name", Reason: "required"}
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO contacts (first_name, last_name, email, phone, company, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+contactColumns,
		in.FirstName, in.LastName, in.Email, in.Phone, in.Company, in.Notes,
	)

	c, err := scanContact(row)
	if err != nil {
		return Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}

// Get returns the contact with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (Contact, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = $1", id)
	return scanContact(row)
}

// buildUpdate turns a Patch into an UPDATE statement. updated_at is always
// refreshed, even for an empty patch. Column names come from the fixed
// mutableColumns list, never from patch keys, so patch input cannot reach
// the statement as an identifier.
func buildUpdate(id int64, patch Patch) (string, []interface{}, error) {
	sets := []string{"updated_at = now()"}
	var args []interface{}

	for _, col := range mutableColumns {
		v, ok := patch[col]
		if !ok {
			continue
		}

		switch col {
		case "first_name", "last_name":
			s, isString := v.(string)
			s = strings.TrimSpace(s)
			if !isString || s == "" {
				return "", nil, &ValidationError{Field: col, Reason: "must be a non-empty string"}
			}
			args = append(args, s)
		default:
			if v == nil {
				args = append(args, nil)
				break
			}
			s, isString := v.(string)
			if !isString {
				return "", nil, &ValidationError{Field: col, Reason: "must be a string or null"}
			}
			args = append(args, s)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE contacts SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), contactColumns)

	return query, args, nil
}

// Update applies a merge update to the contact with the given id and
// returns the full updated record. Fields absent from the patch keep their
// stored values; updated_at is refreshed unconditionally.
func (s *Store) Update(ctx context.Context, id int64, patch Patch) (Contact, error) {
	query, args, err := buildUpdate(id, patch)
	if err != nil {
		return Contact{}, err
	}

	return scanContact(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes the contact with the given id. A delete that touches no
// rows reports ErrNotFound rather than success.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM contacts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
