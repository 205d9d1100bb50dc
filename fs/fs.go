package appfs

import "embed"

// FS holds the SQL migrations (one directory per database engine) and the email templates.
//
//go:embed migrations all:templates
var FS embed.FS

// MigrationsDir returns the migrations directory for a database engine.
func MigrationsDir(engine string) string {
	return "migrations/" + engine
}

const EmailTemplatesDir = "templates/email"
