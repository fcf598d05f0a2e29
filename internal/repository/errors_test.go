package repository

import (
	"testing"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated", errors.Wrap(gorm.ErrDuplicatedKey, "insert"), true},
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "idx"`), true},
		{"mysql", errors.New("Error 1062: Duplicate entry '1-2' for key 'idx'"), true},
		{"sqlite", errors.New("UNIQUE constraint failed: assignment_submissions.assignment_id"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateKey(tt.err))
		})
	}
}

func TestFindErr(t *testing.T) {
	assert.NoError(t, findErr(nil, util.ErrQuizNotFound, "find quiz"))
	assert.Equal(t, util.ErrQuizNotFound, findErr(gorm.ErrRecordNotFound, util.ErrQuizNotFound, "find quiz"))

	err := findErr(errors.New("disk full"), util.ErrQuizNotFound, "find quiz")
	assert.EqualError(t, err, "find quiz: disk full")
	assert.Equal(t, util.ErrStorageFailure, util.Kind(err))
}
