// Package form holds the text parsers behind the interactive commands: the
// shell-style tokenizer used to split $EDITOR, and the "Field: value" issue
// form that users fill in when creating an issue.
package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError is returned by ArgvFromLine for unbalanced quotes.
type ParseError struct {
	State string
	Line  string
}

func (e *ParseError) Error() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(e.Line)
	return fmt.Sprintf("unfinished %s segment in line: %s", e.State, bytes.TrimSpace(buf.Bytes()))
}

const (
	stateDefault      = "default"
	stateSingleQuoted = "single-quoted"
	stateDoubleQuoted = "double-quoted"
)

func isArgvSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// ArgvFromLine splits line into an argument vector, honoring single and
// double quotes and backslash escapes:
//
//	foo\Xbar    =>  foo\Xbar
//	'foo\'bar'  =>  foo'bar
//	"foo\"bar"  =>  foo"bar
//
// An explicit empty quoted pair yields an empty argument.
func ArgvFromLine(line string) ([]string, error) {
	trimmed := strings.TrimSpace(line)
	argv := []string{}
	state := stateDefault

	var arg strings.Builder
	inArg := false

	for i := 0; i < len(trimmed); i++ {
		ch := trimmed[i]

		if ch == '\\' && i+1 < len(trimmed) {
			inArg = true
			next := trimmed[i+1]
			// The backslash is dropped only when escaping the closing quote.
			if !(state == stateDoubleQuoted && next == '"') &&
				!(state == stateSingleQuoted && next == '\'') {
				arg.WriteByte(ch)
			}
			i++
			arg.WriteByte(next)
			continue
		}

		switch state {
		case stateSingleQuoted:
			if ch == '\'' {
				state = stateDefault
			} else {
				arg.WriteByte(ch)
			}
		case stateDoubleQuoted:
			if ch == '"' {
				state = stateDefault
			} else {
				arg.WriteByte(ch)
			}
		default:
			switch {
			case ch == '"':
				inArg = true
				state = stateDoubleQuoted
			case ch == '\'':
				inArg = true
				state = stateSingleQuoted
			case isArgvSpace(ch):
				if inArg {
					argv = append(argv, arg.String())
				}
				arg.Reset()
				inArg = false
			default:
				inArg = true
				arg.WriteByte(ch)
			}
		}
	}
	if inArg {
		argv = append(argv, arg.String())
	}

	if state != stateDefault {
		return nil, &ParseError{State: state, Line: line}
	}
	return argv, nil
}
