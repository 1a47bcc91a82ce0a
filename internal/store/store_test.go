package store

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateErr(t *testing.T) {
	tests := []struct {
		name    string
		in      error
		wantDup bool
		wantNil bool
	}{
		{"nil passes through", nil, false, true},
		{"duplicated key maps to ErrDuplicate", gorm.ErrDuplicatedKey, true, false},
		{"wrapped duplicated key maps to ErrDuplicate", errors.Wrap(gorm.ErrDuplicatedKey, "insert"), true, false},
		{"other errors pass through", errors.New("connection reset"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateErr(tt.in, "op")
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			assert.Error(t, got)
			assert.Equal(t, tt.wantDup, errors.Is(got, ErrDuplicate))
			// gorm sentinels never leak past the store layer.
			if tt.wantDup {
				assert.NotEqual(t, gorm.ErrDuplicatedKey, got)
			}
		})
	}
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "categories", Category{}.TableName())
	assert.Equal(t, "articles", Article{}.TableName())
}
