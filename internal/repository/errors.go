// Package repository provides the MySQL-backed implementations of the
// booking engine's store contracts: the reservation ledger and the
// read-only catalog and customer adapters.  Handlers never talk to
// this package directly; they go through the booking and report
// packages, which consume the interfaces these types satisfy.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the server error number MySQL raises when an
// insert violates a unique key.
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a MySQL duplicate-key
// violation.  The ledger uses it to translate a lost seat race into
// the booking package's sentinel.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
