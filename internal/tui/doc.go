// Package tui provides the interactive recommendations browser behind
// `ecofocus recommend --tui`.
package tui
