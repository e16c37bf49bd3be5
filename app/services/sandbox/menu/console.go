package menu

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Console reads answers to prompts one line at a time.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole constructs a console over the provided reader and writer.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Prompt writes the label and returns the trimmed line that was entered.
// io.EOF is returned when there is no more input.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(c.in.Text()), nil
}

// =============================================================================

// ParseDifficulty returns the difficulty entered or the fallback when the
// input is not a non-negative integer.
func ParseDifficulty(s string, fallback uint) uint {
	d, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return fallback
	}
	return uint(d)
}

// ParseAmount returns the amount entered or the fallback when the input
// is not a finite number.
func ParseAmount(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}
