package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kaamdham/shared"
	"kaamdham/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{"zero total", 0, 10, 1},
		{"exact pages", 20, 10, 2},
		{"partial page", 21, 10, 3},
		{"zero limit", 5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get:b-1", shared.BuildCacheKey("booking:get", "b-1"))
	assert.Equal(t, "limiter:1.2.3.4:agent", shared.BuildCacheKey("limiter", "1.2.3.4", "agent"))
}

func TestBuildCacheKeyWithQueryIsStable(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "open", Table: "jobs"},
		},
	}

	first := shared.BuildCacheKeyWithQuery("job:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("job:gets", params, filter)

	assert.Equal(t, first, second)

	other := shared.BuildCacheKeyWithQuery("job:gets", dto.QueryParams{Page: 2, Limit: 10}, filter)
	assert.NotEqual(t, first, other)
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Status string `db:"status"`
		Title  string `db:"title"`
		Skip   string
	}

	fields := shared.TransformFields(update{Status: "confirmed"}, "u-1")

	assert.Equal(t, "confirmed", fields["status"])
	assert.Equal(t, "u-1", fields["modified_by"])
	assert.NotContains(t, fields, "title")
	assert.Contains(t, fields, "modified_at")
}

func TestHaversineKm(t *testing.T) {
	// Delhi to Mumbai is roughly 1150 km.
	d := shared.HaversineKm(28.6139, 77.2090, 19.0760, 72.8777)

	assert.InDelta(t, 1150, d, 25)
	assert.Zero(t, shared.HaversineKm(28.6139, 77.2090, 28.6139, 77.2090))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, shared.IsDigits("9876543210"))
	assert.True(t, shared.IsDigits("0412"))
	assert.False(t, shared.IsDigits(""))
	assert.False(t, shared.IsDigits("12a4"))
	assert.False(t, shared.IsDigits("12 34"))
}
