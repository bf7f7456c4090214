// Package all registers every built-in storage backend with the storage
// factory. Import it for side effects:
//
//	import _ "ml100k/internal/storage/all"
//
// Binaries that need only some backends can import those packages directly
// instead.
package all

import (
	_ "ml100k/internal/storage/mssql"
	_ "ml100k/internal/storage/mysql"
	_ "ml100k/internal/storage/postgres"
	_ "ml100k/internal/storage/sqlite"
)
