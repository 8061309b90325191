package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrFailedToOpenConnection is returned when every connection attempt failed.
	ErrFailedToOpenConnection = errors.New("failed to open db connection")

	// ErrFailedToParseConfig is returned for a malformed connection string.
	ErrFailedToParseConfig = errors.New("failed to parse db config")

	// ErrHealthcheckFailed indicates the pool lost its connection.
	ErrHealthcheckFailed = errors.New("healthcheck failed, connection is not available")
)

// IsNotFound detects pgx.ErrNoRows for consistent "not found" handling.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKey detects unique constraint violations (SQLSTATE 23505), e.g.
// two workers inserting the same delivery record.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
