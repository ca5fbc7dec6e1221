// Package pagination holds the --limit/--offset/--page/--page-size and
// --sort handling shared by the list commands (history list, recommend).
package pagination
