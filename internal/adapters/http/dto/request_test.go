package dto_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
)

// requireValidationField asserts err wraps ErrValidation and the resulting
// ValidationError contains the expected field key.
func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}

func TestCreateListRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dto.CreateListRequest
		wantField string
	}{
		{
			name: "valid",
			req:  dto.CreateListRequest{Title: "Birthday", Visibility: "friends"},
		},
		{
			name: "valid with items sorting",
			req:  dto.CreateListRequest{Title: "Birthday", Visibility: "Public", ItemsSorting: "preference:desc"},
		},
		{
			name:      "missing title",
			req:       dto.CreateListRequest{Title: "   ", Visibility: "public"},
			wantField: "title",
		},
		{
			name:      "title too long",
			req:       dto.CreateListRequest{Title: strings.Repeat("x", list.MaxTitleLength+1), Visibility: "public"},
			wantField: "title",
		},
		{
			name:      "missing visibility",
			req:       dto.CreateListRequest{Title: "Birthday"},
			wantField: "visibility",
		},
		{
			name:      "unknown visibility",
			req:       dto.CreateListRequest{Title: "Birthday", Visibility: "secret"},
			wantField: "visibility",
		},
		{
			name:      "unknown items sorting property",
			req:       dto.CreateListRequest{Title: "Birthday", Visibility: "public", ItemsSorting: "price"},
			wantField: "itemsSorting",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, tt.wantField)
		})
	}
}

func TestCreateListRequest_Values(t *testing.T) {
	t.Parallel()

	req := dto.CreateListRequest{
		Title:            "  Birthday ",
		Visibility:       "USERS",
		ItemsSorting:     "preference:descending",
		MaskReservations: true,
	}

	v := req.Values()

	if v.Title != "Birthday" {
		t.Errorf("Title = %q, want %q", v.Title, "Birthday")
	}
	if v.Visibility != access.Users {
		t.Errorf("Visibility = %q, want %q", v.Visibility, access.Users)
	}
	if !v.MaskReservations {
		t.Error("MaskReservations = false, want true")
	}
	if v.ItemsSorting == nil {
		t.Fatal("ItemsSorting = nil, want a spec")
	}
	if v.ItemsSorting.Property != item.SortByPreference || v.ItemsSorting.Direction != sorting.Descending {
		t.Errorf("ItemsSorting = %+v, want preference descending", *v.ItemsSorting)
	}
}

func TestSortFromQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		want    sorting.Spec
		wantErr bool
	}{
		{name: "absent", query: "", want: sorting.Spec{}},
		{name: "property only", query: "sort=title", want: sorting.Spec{Property: "title", Direction: sorting.Ascending}},
		{name: "descending", query: "sort=createdAt&order=desc", want: sorting.Spec{Property: "createdAt", Direction: sorting.Descending}},
		{name: "unknown order is ascending", query: "sort=title&order=sideways", want: sorting.Spec{Property: "title", Direction: sorting.Ascending}},
		{name: "unknown property", query: "sort=price", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}

			got, err := dto.SortFromQuery(q, list.SortTable)
			if tt.wantErr {
				requireValidationField(t, err, "query.sort")
				return
			}
			if err != nil {
				t.Fatalf("SortFromQuery() = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("SortFromQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
