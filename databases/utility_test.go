package databases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusfind/lost-and-found-api/databases"
)

func TestPaginateOptions(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		page  int
		skip  int64
	}{
		{"first page", 10, 0, 0},
		{"second page", 10, 1, 10},
		{"small pages", 3, 4, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := databases.PaginateOptions(tt.limit, tt.page)

			assert.Equal(t, int64(tt.limit), *opts.Limit)
			assert.Equal(t, tt.skip, *opts.Skip)
		})
	}
}
