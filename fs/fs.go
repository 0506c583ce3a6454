// Package appfs embeds the non-Go assets the binaries need at runtime:
// database migrations and email templates.
package appfs

import "embed"

//go:embed assets migrations templates/email
var FS embed.FS
