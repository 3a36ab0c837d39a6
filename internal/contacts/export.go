package contacts

import (
	"context"
	"fmt"
)

// ExportAll returns the full record set ordered by (last_name, first_name)
// ascending, shaped for tabular serialization. No filtering or pagination.
func (s *Store) ExportAll(ctx context.Context) ([]Contact, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+contactColumns+" FROM contacts ORDER BY last_name ASC, first_name ASC")
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}

	result, err := collectContacts(rows)
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}
	return result, nil
}
