// Package clipboard provides cross-platform clipboard support.
package clipboard

import (
	"io"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"

	"github.com/f3rmion/tilesmith/internal/errors"
)

// Write copies text to the system clipboard.
func Write(text string) error {
	if !Available() {
		return errors.Unavailable("no clipboard utility found (install xclip, xsel or wl-clipboard)")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Wrap(err, "writing clipboard")
	}
	return nil
}

// Available checks if clipboard functionality is available.
func Available() bool {
	return !clipboard.Unsupported
}

// Terminal returns a writer that copies text to the clipboard of the
// terminal behind w using the OSC 52 escape sequence. It is used for
// remote sessions where the local clipboard is not the user's.
func Terminal(w io.Writer) func(string) error {
	out := termenv.NewOutput(w)
	return func(text string) error {
		out.Copy(text)
		return nil
	}
}
