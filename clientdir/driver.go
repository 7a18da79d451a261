/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2024 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package clientdir is the shared, transactional username<->client_id
// directory the Application Server uses to resolve a push's target
// client_id. It is backed by gorm, with sqlite as the default
// single-instance store and postgres available for deployments sharing
// the directory across server processes.
package clientdir

import (
	"strings"

	drvpsq "gorm.io/driver/postgres"
	drvsql "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSQLite     = "sqlite"
	DriverPostgreSQL = "postgres"
)

// Driver selects the dialector used to open the directory store.
type Driver string

// DriverFromDSN infers the driver from the DSN's scheme, defaulting to
// sqlite when no recognizable scheme is present (e.g. a bare file path).
func DriverFromDSN(dsn string) Driver {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgreSQL
	default:
		return DriverSQLite
	}
}

func (d Driver) Dialector(dsn string) gorm.Dialector {
	switch d {
	case DriverPostgreSQL:
		return drvpsq.Open(dsn)
	default:
		return drvsql.Open(dsn)
	}
}
