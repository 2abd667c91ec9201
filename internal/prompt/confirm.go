package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:  os.Stdin,
		Out: os.Stdout,
		IsInteractive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// ConfirmRemove asks before dropping records from the library. yes skips
// the question.
func (c Confirmer) ConfirmRemove(paths []string, yes bool) (bool, error) {
	if yes || len(paths) == 0 {
		return true, nil
	}
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, fmt.Errorf("non-interactive stdin: use -y to remove without confirmation")
	}
	if c.Out != nil {
		if len(paths) == 1 {
			fmt.Fprintf(c.Out, "Remove %s from the library? (y/n): ", paths[0])
		} else {
			fmt.Fprintf(c.Out, "Remove %d files from the library? (y/n): ", len(paths))
		}
	}
	return c.readYes()
}

// ConfirmOverwrite asks before replacing an existing output file.
func (c Confirmer) ConfirmOverwrite(path string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, fmt.Errorf("non-interactive stdin: use --force to overwrite existing output")
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "Warning: Output file %s already exists. Overwrite? (y/n): ", path)
	}
	return c.readYes()
}

func (c Confirmer) readYes() (bool, error) {
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
