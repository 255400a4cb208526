// Package templates embeds the student-facing HTML pages so the binary ships
// self-contained.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
