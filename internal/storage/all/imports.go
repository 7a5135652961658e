// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: a blank import of this package runs the
// init functions of each backend, which register their repository factories
// and DDL bootstrappers. The binary imports it once; everything else depends
// only on the storage abstraction.
//
// A build that should support a single backend can blank-import that backend
// package directly instead of this one.
package all

import (
	_ "tabload/internal/storage/mssql"
	_ "tabload/internal/storage/mysql"
	_ "tabload/internal/storage/postgres"
	_ "tabload/internal/storage/sqlite"
)
