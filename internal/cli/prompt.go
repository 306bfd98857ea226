package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// lineReader reads answers from the command's input, one line each
type lineReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newLineReader(cmd *cobra.Command) *lineReader {
	return &lineReader{
		scanner: bufio.NewScanner(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
	}
}

func (r *lineReader) next() (string, bool, error) {
	if !r.scanner.Scan() {
		return "", false, r.scanner.Err()
	}
	return strings.TrimSpace(r.scanner.Text()), true, nil
}

func (r *lineReader) ask(label string) (string, error) {
	fmt.Fprint(r.out, promptStyle.Render(label+": "))
	line, ok, err := r.next()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", io.ErrUnexpectedEOF
	}
	return line, nil
}

// askIfEmpty prompts only when the flag was not given
func (r *lineReader) askIfEmpty(value *string, label string) error {
	if *value != "" {
		return nil
	}
	answer, err := r.ask(label)
	if err != nil {
		return err
	}
	*value = answer
	return nil
}
