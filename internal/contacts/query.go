package contacts

import (
	"context"
	"fmt"
	"strings"
)

// sortColumns is the allow-list for the untrusted sort parameter. Sort
// fields are structural identifiers and cannot be bound as query values,
// so anything outside this set falls back to last_name instead of being
// interpolated.
var sortColumns = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"email":      true,
	"phone":      true,
	"company":    true,
	"created_at": true,
	"updated_at": true,
}

// searchColumns are the fields matched by the free-text filter.
var searchColumns = []string{"first_name", "last_name", "email", "phone", "company"}

// ListParams carries the untrusted list parameters as received from the
// HTTP layer. Zero values mean "no filter", "default sort", "no limit".
type ListParams struct {
	Query  string
	Sort   string
	Dir    string
	Limit  int
	Offset int
}

// ListResult is one page of contacts plus the total size of the filtered
// set, independent of Limit/Offset.
type ListResult struct {
	Contacts []Contact `json:"contacts"`
	Total    int64     `json:"total"`
}

// orderClause validates the sort field against the allow-list and
// normalizes the direction. Only "desc" (case-insensitive) sorts
// descending; everything else is ascending.
func orderClause(sort, dir string) string {
	col := sort
	if !sortColumns[col] {
		col = "last_name"
	}
	d := "ASC"
	if strings.EqualFold(dir, "desc") {
		d = "DESC"
	}
	return col + " " + d + ", id ASC"
}

// searchClause builds the WHERE fragment for a free-text filter. The
// filter value is always bound as a parameter, never interpolated.
// Returns an empty clause for an empty query.
func searchClause(query string) (string, []interface{}) {
	if query == "" {
		return "", nil
	}

	conditions := make([]string, len(searchColumns))
	for i, col := range searchColumns {
		conditions[i] = col + " ILIKE $1"
	}
	return " WHERE (" + strings.Join(conditions, " OR ") + ")", []interface{}{"%" + query + "%"}
}

// buildListQuery assembles the paginated SELECT for the given parameters.
// Limit and Offset are bound as parameters and only applied when positive;
// the engine itself imposes no upper bound.
func buildListQuery(p ListParams) (string, []interface{}) {
	where, args := searchClause(p.Query)

	query := "SELECT " + contactColumns + " FROM contacts" + where + " ORDER BY " + orderClause(p.Sort, p.Dir)

	argIdx := len(args) + 1
	if p.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, p.Limit)
		argIdx++
	}
	if p.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, p.Offset)
	}

	return query, args
}

// List returns one page of contacts matching the filter, plus the total
// count of the filtered set. An empty result is not an error: the page is
// empty and Total is 0.
func (s *Store) List(ctx context.Context, p ListParams) (ListResult, error) {
	where, whereArgs := searchClause(p.Query)

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contacts"+where, whereArgs...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count contacts: %w", err)
	}

	query, args := buildListQuery(p)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("query contacts: %w", err)
	}

	page, err := collectContacts(rows)
	if err != nil {
		return ListResult{}, fmt.Errorf("scan contacts: %w", err)
	}

	return ListResult{Contacts: page, Total: total}, nil
}
