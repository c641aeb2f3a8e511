package tui

import (
	"os"

	"github.com/gen2brain/beeep"
	"github.com/mattn/go-isatty"
)

// Interactive reports whether f is a terminal that can host a live view.
func Interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Notify shows a desktop notification. Failures are returned, not fatal;
// headless machines usually have no notification daemon.
func Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
