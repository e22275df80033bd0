package testutil

import (
	"context"
	"fmt"
	"strings"
)

// Response represents a pre-configured command response for FakeCommander.
type Response struct {
	Output []byte
	Err    error
	// Stderr is recorded as if the command had written it to standard error.
	Stderr string
}

// FakeCommander returns pre-configured responses for testing.
// Responses are keyed by "name arg1 arg2 ..." format.
// If no exact match is found, it tries prefix matching.
type FakeCommander struct {
	// Responses maps command strings to their responses.
	// Key format: "command arg1 arg2" (e.g., "pyact helper activate", "conda info --json")
	Responses map[string]Response

	// Handlers compute a response from the environment passed to Output.
	// They take precedence over Responses for the same key.
	Handlers map[string]func(env []string) Response

	// Calls records all commands that were executed, in order.
	Calls []string

	// EnvCalls records the environment passed to Output, in order.
	EnvCalls [][]string

	// Paths maps executable names to the result of LookPath.
	// Names missing from the map are reported as not found.
	Paths map[string]string

	// StderrLog collects Stderr of every matched response.
	StderrLog []string

	// DefaultResponse is returned when no matching response is found.
	// If nil, an error is returned for unmatched commands.
	DefaultResponse *Response
}

// NewFakeCommander creates a FakeCommander with an empty response map.
func NewFakeCommander() *FakeCommander {
	return &FakeCommander{
		Responses: make(map[string]Response),
		Handlers:  make(map[string]func(env []string) Response),
		Paths:     make(map[string]string),
	}
}

// Register adds a response for the given command key.
func (c *FakeCommander) Register(key string, output string, err error) {
	c.Responses[key] = Response{
		Output: []byte(output),
		Err:    err,
	}
}

// Handle adds a dynamic response for the given command key.
func (c *FakeCommander) Handle(key string, fn func(env []string) Response) {
	c.Handlers[key] = fn
}

// Run looks up the command in Responses and returns the matching response.
func (c *FakeCommander) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	resp, err := c.lookup(nil, name, args)
	if err != nil {
		return nil, err
	}
	return resp.Output, resp.Err
}

// Output records the environment and delegates to the lookup logic.
func (c *FakeCommander) Output(_ context.Context, env []string, name string, args ...string) ([]byte, error) {
	c.EnvCalls = append(c.EnvCalls, env)
	resp, err := c.lookup(env, name, args)
	if err != nil {
		return nil, err
	}
	return resp.Output, resp.Err
}

// LookPath resolves name from Paths.
func (c *FakeCommander) LookPath(name string) (string, error) {
	if p, ok := c.Paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("FakeCommander: %q not found in PATH", name)
}

func (c *FakeCommander) lookup(env []string, name string, args []string) (Response, error) {
	fullCmd := name
	if len(args) > 0 {
		fullCmd = name + " " + strings.Join(args, " ")
	}

	c.Calls = append(c.Calls, fullCmd)

	resp, ok := c.match(env, fullCmd)
	if !ok {
		return Response{}, fmt.Errorf("FakeCommander: no response registered for %q", fullCmd)
	}
	if resp.Stderr != "" {
		c.StderrLog = append(c.StderrLog, resp.Stderr)
	}
	return resp, nil
}

func (c *FakeCommander) match(env []string, fullCmd string) (Response, bool) {
	// Exact match first.
	if fn, ok := c.Handlers[fullCmd]; ok {
		return fn(env), true
	}
	if resp, ok := c.Responses[fullCmd]; ok {
		return resp, true
	}

	// Try prefix matching (longest prefix wins).
	bestKey := ""
	for key := range c.Handlers {
		if strings.HasPrefix(fullCmd, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	for key := range c.Responses {
		if strings.HasPrefix(fullCmd, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		if fn, ok := c.Handlers[bestKey]; ok {
			return fn(env), true
		}
		return c.Responses[bestKey], true
	}

	// Default response.
	if c.DefaultResponse != nil {
		return *c.DefaultResponse, true
	}
	return Response{}, false
}

// Called returns true if a command matching the given prefix was executed.
func (c *FakeCommander) Called(prefix string) bool {
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

// CallCount returns the number of times a command matching the given prefix was executed.
func (c *FakeCommander) CallCount(prefix string) int {
	count := 0
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}

// CallIndex returns the position of the first call matching prefix, or -1.
func (c *FakeCommander) CallIndex(prefix string) int {
	for i, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			return i
		}
	}
	return -1
}
