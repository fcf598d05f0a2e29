package repository

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// isDuplicateKey catches unique-index violations from drivers whose errors gorm
// does not translate to gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint")
}

// findErr maps a missing row to notFound and wraps everything else.
func findErr(err error, notFound error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return errors.Wrap(err, msg)
}
