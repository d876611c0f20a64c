package dto_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"kaamdham/shared/dto"
)

func TestQueryParamsFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		defaults    bool
		wantPage    int
		wantLimit   int
		wantSortDir string
	}{
		{
			name:      "explicit values",
			url:       "/v1/jobs?page=3&limit=25&sort_by=created_at&sort_dir=asc",
			defaults:  false,
			wantPage:  3,
			wantLimit: 25, wantSortDir: "ASC",
		},
		{
			name:      "defaults applied when missing",
			url:       "/v1/jobs",
			defaults:  true,
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:      "invalid values ignored",
			url:       "/v1/jobs?page=-1&limit=abc&sort_dir=sideways",
			defaults:  true,
			wantPage:  1,
			wantLimit: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)

			q := dto.QueryParams{}
			q.FromRequest(r, tt.defaults)

			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantSortDir, q.SortDir)
		})
	}
}

func TestGeoParamsFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/instant-bookings/nearby?lat=28.6139&lng=77.2090", nil)

	g := dto.GeoParams{}
	g.FromRequest(r)

	assert.InDelta(t, 28.6139, g.Lat, 1e-9)
	assert.InDelta(t, 77.2090, g.Lng, 1e-9)
	assert.False(t, g.IsZero())

	empty := dto.GeoParams{}
	empty.FromRequest(httptest.NewRequest("GET", "/v1/instant-bookings/nearby", nil))
	assert.True(t, empty.IsZero())
}

func TestFilterGetWhereClause(t *testing.T) {
	filter := dto.Filter{
		Field:    "status",
		Operator: dto.FilterOperatorEq,
		Value:    "booked",
		Table:    "bookings",
	}

	where, args := filter.GetWhereClause()

	assert.Equal(t, "bookings.status = :status", where)
	assert.Equal(t, "booked", args["status"])
}

func TestFilterGroupGetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "freelancer_id", Operator: dto.FilterOperatorEq, Value: "f-1", Table: "bookings"},
			dto.Filter{Field: "status", Operator: dto.FilterOperatorNotEq, Value: "completed", Table: "bookings"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Contains(t, where, "bookings.freelancer_id = :freelancer_id")
	assert.Contains(t, where, "bookings.status != :status")
	assert.Contains(t, where, " AND ")
	assert.Len(t, args, 2)
}

func TestFilterGroupEmpty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	where, args := group.GetWhereClause()

	assert.Equal(t, "", where)
	assert.Empty(t, args)
}
