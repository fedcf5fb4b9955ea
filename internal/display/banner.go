package display

import (
	"fmt"
	"os"

	"github.com/blobcast/blobcast/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` ____  _       _                    _
| __ )| | ___ | |__   ___ __ _ ___| |_
|  _ \| |/ _ \| '_ \ / __/ _`+"`"+` / __| __|
| |_) | | (_) | |_) | (_| (_| \__ \ |_
|____/|_|\___/|_.__/ \___\__,_|___/\__|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
