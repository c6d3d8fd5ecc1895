// Package mocks provides test doubles for external process invocation.
package mocks

import (
	"fmt"
	"strings"
)

// Call records one external process invocation.
type Call struct {
	Name string
	Args []string
}

// Line renders the invocation as a single command line.
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// MockRunner implements execx.Runner without spawning processes. Responses
// and Errors are keyed by the full command line first, then by the bare
// command name. OnRun, when set, is invoked before lookup and can create the
// output artifacts a real tool would have produced.
type MockRunner struct {
	Responses map[string][]byte
	Errors    map[string]error
	Available map[string]bool // LookPath result; unlisted commands are available
	Calls     []Call
	OnRun     func(name string, args []string) error
}

func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string][]byte),
		Errors:    make(map[string]error),
		Available: make(map[string]bool),
	}
}

func (m *MockRunner) Run(name string, args ...string) ([]byte, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	m.Calls = append(m.Calls, call)

	if m.OnRun != nil {
		if err := m.OnRun(name, args); err != nil {
			return nil, err
		}
	}

	line := call.Line()
	if err, ok := m.Errors[line]; ok {
		return m.Responses[line], err
	}
	if err, ok := m.Errors[name]; ok {
		return m.Responses[name], err
	}
	if out, ok := m.Responses[line]; ok {
		return out, nil
	}
	return m.Responses[name], nil
}

func (m *MockRunner) LookPath(name string) (string, error) {
	if avail, ok := m.Available[name]; ok && !avail {
		return "", fmt.Errorf("executable file not found in $PATH: %s", name)
	}
	return name, nil
}

// CallsTo returns every recorded invocation of the named command.
func (m *MockRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range m.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
