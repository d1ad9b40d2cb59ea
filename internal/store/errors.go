// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSectionExists signals a strict (page, section_key) uniqueness violation
// in the section registry. It covers both the pre-insert existence check and
// the storage-layer constraint that catches the read-then-write race between
// two concurrent creates.
var ErrSectionExists = errors.New("section already exists for this page")

// uniqueViolation is the Postgres SQLSTATE for duplicate key errors.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint
// failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
