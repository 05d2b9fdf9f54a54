package database

import (
	"errors"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"gorm.io/gorm"
)

// TranslateError maps storage-layer failures onto the application error
// taxonomy. Errors that are already AppErrors and unknown errors pass through.
func TranslateError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.Missing(resource + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict(resource + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.Missing(resource + " references a missing record")
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperror.Validation("", resource+" violates a constraint")
	}
	return err
}
