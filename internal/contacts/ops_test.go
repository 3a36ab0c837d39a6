package contacts

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestBuildUpdate(t *testing.T) {
	tests := []struct {
		name      string
		patch     Patch
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "empty patch still touches updated_at",
			patch:     Patch{},
			wantQuery: "UPDATE contacts SET updated_at = now() WHERE id = $1 RETURNING " + contactColumns,
			wantArgs:  []interface{}{int64(7)},
		},
		{
			name:      "single field",
			patch:     Patch{"email": "a@b.example"},
			wantQuery: "UPDATE contacts SET updated_at = now(), email = $1 WHERE id = $2 RETURNING " + contactColumns,
			wantArgs:  []interface{}{"a@b.example", int64(7)},
		},
		{
			name:      "explicit null clears optional field",
			patch:     Patch{"notes": nil},
			wantQuery: "UPDATE contacts SET updated_at = now(), notes = $1 WHERE id = $2 RETURNING " + contactColumns,
			wantArgs:  []interface{}{nil, int64(7)},
		},
		{
			name: "columns follow fixed order regardless of map order",
			patch: Patch{
				"notes":      "vip",
				"first_name": "Ada",
				"company":    nil,
			},
			wantQuery: "UPDATE contacts SET updated_at = now(), first_name = $1, company = $2, notes = $3 WHERE id = $4 RETURNING " + contactColumns,
			wantArgs:  []interface{}{"Ada", nil, "vip", int64(7)},
		},
		{
			name:      "unknown keys are ignored",
			patch:     Patch{"id": float64(99), "created_at": "2020-01-01", "phone": "555"},
			wantQuery: "UPDATE contacts SET updated_at = now(), phone = $1 WHERE id = $2 RETURNING " + contactColumns,
			wantArgs:  []interface{}{"555", int64(7)},
		},
		{
			name:      "names are stored trimmed",
			patch:     Patch{"last_name": "  Hopper  "},
			wantQuery: "UPDATE contacts SET updated_at = now(), last_name = $1 WHERE id = $2 RETURNING " + contactColumns,
			wantArgs:  []interface{}{"Hopper", int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildUpdate(7, tt.patch)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if query != tt.wantQuery {
				t.Errorf("query = %q\nwant    %q", query, tt.wantQuery)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	// Validation rejects before any statement is issued, so a zero Store
	// is safe here.
	s := &Store{}

	tests := []struct {
		name      string
		in        NewContact
		wantField string
	}{
		{"missing first name", NewContact{LastName: "Hopper"}, "first_name"},
		{"missing last name", NewContact{FirstName: "Grace"}, "last_name"},
		{"whitespace first name", NewContact{FirstName: "   ", LastName: "Hopper"}, "first_name"},
		{"whitespace last name", NewContact{FirstName: "Grace", LastName: "\t"}, "last_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tt.in)

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestBuildUpdateValidation(t *testing.T) {
	tests := []struct {
		name      string
		patch     Patch
		wantField string
	}{
		{
			name:      "first_name cannot be cleared",
			patch:     Patch{"first_name": nil},
			wantField: "first_name",
		},
		{
			name:      "last_name cannot be empty",
			patch:     Patch{"last_name": ""},
			wantField: "last_name",
		},
		{
			name:      "whitespace-only name is empty",
			patch:     Patch{"first_name": "   "},
			wantField: "first_name",
		},
		{
			name:      "name must be a string",
			patch:     Patch{"first_name": float64(12)},
			wantField: "first_name",
		},
		{
			name:      "optional field rejects non-string",
			patch:     Patch{"email": true},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildUpdate(1, tt.patch)

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}
