// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: a blank import runs each backend's init
// function, registering its factory and DDL bootstrapper with the storage
// package. Importing this package makes the following kinds available:
//
//   - "postgres" (datamorph/internal/storage/postgres)
//   - "mssql"    (datamorph/internal/storage/mssql)
//   - "sqlite"   (datamorph/internal/storage/sqlite)
//
// Binaries that need only a subset can blank-import the individual backend
// packages instead.
package all

import (
	_ "datamorph/internal/storage/mssql"
	_ "datamorph/internal/storage/postgres"
	_ "datamorph/internal/storage/sqlite"
)
