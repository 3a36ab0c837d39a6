package contacts

import (
	"reflect"
	"testing"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		sort string
		dir  string
		want string
	}{
		{
			name: "defaults",
			sort: "",
			dir:  "",
			want: "last_name ASC, id ASC",
		},
		{
			name: "allowed column ascending",
			sort: "email",
			dir:  "asc",
			want: "email ASC, id ASC",
		},
		{
			name: "desc lowercase",
			sort: "created_at",
			dir:  "desc",
			want: "created_at DESC, id ASC",
		},
		{
			name: "desc mixed case",
			sort: "first_name",
			dir:  "DeSc",
			want: "first_name DESC, id ASC",
		},
		{
			name: "unknown direction is ascending",
			sort: "phone",
			dir:  "descending",
			want: "phone ASC, id ASC",
		},
		{
			name: "unknown column falls back",
			sort: "password",
			dir:  "desc",
			want: "last_name DESC, id ASC",
		},
		{
			name: "injection attempt falls back",
			sort: "last_name; DROP TABLE contacts; --",
			dir:  "",
			want: "last_name ASC, id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orderClause(tt.sort, tt.dir)
			if got != tt.want {
				t.Errorf("orderClause(%q, %q) = %q, want %q", tt.sort, tt.dir, got, tt.want)
			}
		})
	}
}

func TestSearchClause(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		where, args := searchClause("")
		if where != "" {
			t.Errorf("expected empty clause, got %q", where)
		}
		if len(args) != 0 {
			t.Errorf("expected no args, got %v", args)
		}
	})

	t.Run("non-empty query", func(t *testing.T) {
		where, args := searchClause("smith")

		want := " WHERE (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1 OR company ILIKE $1)"
		if where != want {
			t.Errorf("clause = %q, want %q", where, want)
		}
		if !reflect.DeepEqual(args, []interface{}{"%smith%"}) {
			t.Errorf("args = %v, want [%%smith%%]", args)
		}
	})

	t.Run("wildcards stay in the bound value", func(t *testing.T) {
		where, args := searchClause("50%' OR '1'='1")
		if len(args) != 1 {
			t.Fatalf("expected 1 arg, got %v", args)
		}
		if args[0] != "%50%' OR '1'='1%" {
			t.Errorf("arg = %q", args[0])
		}
		// The clause itself never contains user input.
		if where != " WHERE (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1 OR company ILIKE $1)" {
			t.Errorf("clause = %q", where)
		}
	})
}

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name      string
		params    ListParams
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "no parameters",
			params:    ListParams{},
			wantQuery: "SELECT " + contactColumns + " FROM contacts ORDER BY last_name ASC, id ASC",
			wantArgs:  nil,
		},
		{
			name:      "limit only",
			params:    ListParams{Limit: 25},
			wantQuery: "SELECT " + contactColumns + " FROM contacts ORDER BY last_name ASC, id ASC LIMIT $1",
			wantArgs:  []interface{}{25},
		},
		{
			name:      "limit and offset",
			params:    ListParams{Limit: 10, Offset: 30},
			wantQuery: "SELECT " + contactColumns + " FROM contacts ORDER BY last_name ASC, id ASC LIMIT $1 OFFSET $2",
			wantArgs:  []interface{}{10, 30},
		},
		{
			name:      "offset without limit",
			params:    ListParams{Offset: 5},
			wantQuery: "SELECT " + contactColumns + " FROM contacts ORDER BY last_name ASC, id ASC OFFSET $1",
			wantArgs:  []interface{}{5},
		},
		{
			name:   "filter shifts placeholder numbering",
			params: ListParams{Query: "acme", Sort: "company", Dir: "desc", Limit: 20, Offset: 40},
			wantQuery: "SELECT " + contactColumns + " FROM contacts" +
				" WHERE (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1 OR company ILIKE $1)" +
				" ORDER BY company DESC, id ASC LIMIT $2 OFFSET $3",
			wantArgs: []interface{}{"%acme%", 20, 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.params)
			if query != tt.wantQuery {
				t.Errorf("query = %q\nwant    %q", query, tt.wantQuery)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}
