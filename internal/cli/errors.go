package cli

import (
	"errors"
	"fmt"
	"strings"

	questdb "github.com/questdb-sdk/questdb-go"
)

// describeError renders SQL errors with a marker under the offending position.
func describeError(err error) string {
	var qe *questdb.QueryError
	if !errors.As(err, &qe) {
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", qe.Message)
	line, col := locate(qe.Query, qe.Position)
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", col))
	b.WriteByte('^')
	return b.String()
}

// locate returns the line of query holding position and the column within it.
func locate(query string, position int) (string, int) {
	runes := []rune(query)
	if position < 0 {
		position = 0
	}
	if position > len(runes) {
		position = len(runes)
	}

	start := position
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	end := position
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	return string(runes[start:end]), position - start
}
