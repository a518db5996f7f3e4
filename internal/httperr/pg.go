package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// ConstraintName reports the violated constraint, if the error came from postgres.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// fromPg classifies constraint violations that escaped the use cases.
func fromPg(err error) (BusinessError, bool) {
	switch {
	case IsUniqueViolation(err):
		log.Warn().Err(err).Str("constraint", ConstraintName(err)).Msg("unique violation")
		return BusinessError{Kind: KindConflict, Code: "conflict", Message: "The resource already exists."}, true
	case IsForeignKeyViolation(err):
		log.Warn().Err(err).Str("constraint", ConstraintName(err)).Msg("foreign key violation")
		return BusinessError{Kind: KindValidation, Code: "invalid_reference", Message: "A referenced resource does not exist."}, true
	}
	return BusinessError{}, false
}
