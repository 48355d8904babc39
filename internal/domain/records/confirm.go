package records

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm implements the two-step destructive-action protocol: the prompt
// opens the question and only an explicit yes answer confirms it. Anything
// else — including EOF — cancels and leaves the record set untouched.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
