package db

import "database/sql"

// DB wraps the shared sql handle so packages depend on this type rather
// than on database/sql directly.
type DB struct {
	*sql.DB
}
