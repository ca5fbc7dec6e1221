// Package listview is a generic, virtually scrolled list for Bubble Tea.
// Only the rows inside the viewport are rendered, so long recommendation
// lists stay responsive.
package listview
