//go:build !cgo

package report

// If cgo is not enabled, we will use the modernc.org/sqlite non-cgo sqlite
// driver.

import (
	_ "modernc.org/sqlite"
)

const whichSQLiteDriver = "sqlite"
