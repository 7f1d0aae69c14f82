package reconcile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vmunix/tablodl/internal/media"
)

// ConsoleConfirmer prompts on a terminal. It blocks until a line is read.
type ConsoleConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleConfirmer creates a confirmer reading answers from in and writing prompts to out.
func NewConsoleConfirmer(in io.Reader, out io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm shows the mismatch and returns true only for "y".
func (c *ConsoleConfirmer) Confirm(ctx context.Context, m Mismatch) (bool, error) {
	fmt.Fprintf(c.out, "\nFile exists: %s\n", m.Path)
	fmt.Fprintf(c.out, "  Actual duration:   %.1fs\n", m.Actual)
	fmt.Fprintf(c.out, "  Expected duration: %.1fs\n", m.Expected)
	fmt.Fprintf(c.out, "  Deviation: %s\n", media.Percent(m.Deviation))
	fmt.Fprintln(c.out, "\nThis could be a different episode or an incomplete download.")
	fmt.Fprint(c.out, "Delete and re-download? [y/N]: ")

	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	return strings.ToLower(strings.TrimSpace(line)) == "y", nil
}
