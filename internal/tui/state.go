package tui

// ViewState is the screen a model is showing.
type ViewState int

// View states.
const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateDetail
	ViewStateError
	ViewStateQuitting
)

// Key bindings.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyS     = "s"
)

// Layout defaults.
const (
	defaultWidth         = 100
	defaultHeight        = 30
	minHeight            = 5
	filterInputCharLimit = 64
	filterInputWidth     = 40
	borderPadding        = 2
)

const errSelectedOutOfBounds = "Error: selected recommendation is out of range"
