package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type InputUtils struct {
	In  io.Reader
	Out io.Writer
	// Interactive reports whether In is a terminal. Nil means stdin is checked.
	Interactive func() bool
}

func NewInputUtils() *InputUtils {
	return &InputUtils{In: os.Stdin, Out: os.Stdout}
}

func (i *InputUtils) interactive() bool {
	if i.Interactive != nil {
		return i.Interactive()
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// AskConfirmation asks user for yes/no confirmation. Without a terminal
// there is nobody to ask, so the answer is yes.
func (i *InputUtils) AskConfirmation(message string, force bool) bool {
	if force || !i.interactive() {
		return true
	}

	fmt.Fprintf(i.Out, "%s (y/N): ", message)
	response, _ := bufio.NewReader(i.In).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
