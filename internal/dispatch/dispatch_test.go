package dispatch_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbjs97/pyact/internal/cmdexec"
	"github.com/hbjs97/pyact/internal/conda"
	"github.com/hbjs97/pyact/internal/config"
	"github.com/hbjs97/pyact/internal/delta"
	"github.com/hbjs97/pyact/internal/dispatch"
	"github.com/hbjs97/pyact/internal/envfile"
	"github.com/hbjs97/pyact/internal/envtable"
	"github.com/hbjs97/pyact/internal/helper"
	"github.com/hbjs97/pyact/internal/testutil"
	"github.com/hbjs97/pyact/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperBin = "pyact-helper"

func encoded(t *testing.T, d delta.Delta) testutil.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, delta.Encode(&buf, d))
	return testutil.Response{Output: buf.Bytes()}
}

// newSession wires a Dispatcher to a FakeCommander that runs the real helper
// verbs in dir, so the dispatcher sees exactly what `pyact helper` would print.
func newSession(t *testing.T, dir string, environ ...string) (*dispatch.Dispatcher, *testutil.FakeCommander) {
	t.Helper()
	fc := testutil.NewFakeCommander()
	fc.Handle(helperBin, func(env []string) testutil.Response {
		call := fc.Calls[len(fc.Calls)-1]
		fields := strings.Fields(strings.TrimPrefix(call, helperBin+" "))
		h := &helper.Helper{
			Dir:       dir,
			Env:       envtable.FromEnviron(env),
			Config:    config.Default(),
			Commander: testutil.NewFakeCommander(),
			Conda:     &conda.Resolver{Commander: testutil.NewFakeCommander()},
			UI:        ui.Discard(),
		}
		d, err := h.Run(context.Background(), helper.Verb(fields[0]), fields[1:])
		resp := encoded(t, d)
		if err != nil {
			resp.Err = &cmdexec.ExitError{Code: 1}
			resp.Stderr = err.Error()
		}
		return resp
	})

	return &dispatch.Dispatcher{
		Commander: fc,
		HelperCmd: []string{helperBin},
		Env:       envtable.FromEnviron(environ),
	}, fc
}

func TestActivateIfExisting_NoLinkNoMutation(t *testing.T) {
	dir := testutil.TempProject(t)
	d, fc := newSession(t, dir, "PATH=/usr/bin:/bin", "HOME=/home/u")
	original := d.Env.Clone()

	for i := 0; i < 5; i++ {
		d.ActivateIfExisting(context.Background())
	}

	assert.True(t, d.Env.Equal(original), "got %v", d.Env.Environ())
	assert.Equal(t, 5, fc.CallCount(helperBin+" activate"))
	assert.Equal(t, 5, fc.CallCount(helperBin+" deactivate"))
}

func TestActivateIfExisting_DeactivatesFirst(t *testing.T) {
	d, fc := newSession(t, testutil.TempProject(t), "PATH=/usr/bin")

	d.ActivateIfExisting(context.Background())

	require.Len(t, fc.Calls, 2)
	assert.Equal(t, helperBin+" deactivate", fc.Calls[0])
	assert.Equal(t, helperBin+" activate", fc.Calls[1])
}

func TestActivateIfExisting_Idempotent(t *testing.T) {
	dir := testutil.TempProject(t)
	testutil.MakeVenv(t, filepath.Join(dir, ".venv"))
	d, _ := newSession(t, dir, "PATH=/usr/bin:/bin")

	d.ActivateIfExisting(context.Background())
	once := d.Env.Clone()
	for i := 0; i < 4; i++ {
		d.ActivateIfExisting(context.Background())
	}

	assert.True(t, d.Env.Equal(once), "got %v", d.Env.Environ())
	assert.Equal(t, filepath.Join(dir, ".venv"), d.Env.Lookup("VIRTUAL_ENV"))
}

func TestLink_SuccessActivatesImmediately(t *testing.T) {
	dir := testutil.TempProject(t)
	venv := testutil.MakeVenv(t, filepath.Join(testutil.TempProject(t), "env"))
	d, fc := newSession(t, dir, "PATH=/usr/bin")

	require.NoError(t, d.Link(context.Background(), venv))

	assert.Equal(t, venv, d.Env.Lookup("VIRTUAL_ENV"))
	assert.Equal(t, filepath.Join(venv, "bin")+":/usr/bin", d.Env.Lookup("PATH"))
	assert.Equal(t, []string{
		helperBin + " link " + venv,
		helperBin + " deactivate",
		helperBin + " activate",
	}, fc.Calls)
	assert.Equal(t, "venv;"+venv, testutil.ReadLinkedEnv(t, dir))
}

func TestLink_TypedArgsForwarded(t *testing.T) {
	dir := testutil.TempProject(t)
	venv := testutil.MakeVenv(t, filepath.Join(testutil.TempProject(t), "env"))
	d, fc := newSession(t, dir, "PATH=/usr/bin")

	require.NoError(t, d.Link(context.Background(), "venv", venv))
	assert.Equal(t, helperBin+" link venv "+venv, fc.Calls[0])
	assert.Equal(t, venv, d.Env.Lookup("VIRTUAL_ENV"))
}

func TestLink_FailureNeverActivates(t *testing.T) {
	dir := testutil.TempProject(t)
	d, fc := newSession(t, dir, "PATH=/usr/bin")
	original := d.Env.Clone()

	err := d.Link(context.Background(), "/bad/path")

	assert.ErrorIs(t, err, dispatch.ErrLinkFailed)
	assert.Equal(t, 1, cmdexec.ExitCode(err))
	assert.False(t, fc.Called(helperBin+" activate"))
	assert.False(t, fc.Called(helperBin+" deactivate"))
	assert.True(t, d.Env.Equal(original))
	assert.False(t, envfile.HasLink(dir))
}

func TestLink_AlreadyLinkedKeepsActiveEnv(t *testing.T) {
	dir := testutil.TempProject(t)
	venv := testutil.MakeVenv(t, filepath.Join(testutil.TempProject(t), "env"))
	d, _ := newSession(t, dir, "PATH=/usr/bin")
	require.NoError(t, d.Link(context.Background(), venv))
	active := d.Env.Clone()

	err := d.Link(context.Background(), venv)
	assert.ErrorIs(t, err, dispatch.ErrLinkFailed)
	assert.True(t, d.Env.Equal(active))
}

func TestLink_PassesHelperExitCode(t *testing.T) {
	fc := testutil.NewFakeCommander()
	fc.Responses[helperBin+" link"] = testutil.Response{Err: &cmdexec.ExitError{Code: 17}}
	d := &dispatch.Dispatcher{Commander: fc, HelperCmd: []string{helperBin}, Env: envtable.New()}

	err := d.Link(context.Background(), "conda", "ml")
	assert.ErrorIs(t, err, dispatch.ErrLinkFailed)
	assert.Equal(t, 17, cmdexec.ExitCode(err))
}

func TestLink_HelperNotRunnable(t *testing.T) {
	d := &dispatch.Dispatcher{Commander: testutil.NewFakeCommander(), HelperCmd: []string{helperBin}, Env: envtable.New()}

	err := d.Link(context.Background(), "/x")
	assert.ErrorIs(t, err, dispatch.ErrLinkFailed)
	assert.Equal(t, 1, cmdexec.ExitCode(err))
}

func TestUnlink_DeactivatesBeforeUnlink(t *testing.T) {
	dir := testutil.TempProject(t)
	venv := testutil.MakeVenv(t, filepath.Join(testutil.TempProject(t), "env"))
	d, fc := newSession(t, dir, "PATH=/usr/bin")
	original := d.Env.Clone()
	require.NoError(t, d.Link(context.Background(), venv))
	fc.Calls = nil

	d.Unlink(context.Background())

	require.Len(t, fc.Calls, 2)
	assert.Less(t, fc.CallIndex(helperBin+" deactivate"), fc.CallIndex(helperBin+" unlink"))
	assert.True(t, d.Env.Equal(original), "got %v", d.Env.Environ())
	assert.False(t, envfile.HasLink(dir))
}

func TestUnlink_NothingLinked(t *testing.T) {
	d, fc := newSession(t, testutil.TempProject(t), "PATH=/usr/bin")
	original := d.Env.Clone()

	d.Unlink(context.Background())

	assert.Equal(t, []string{helperBin + " deactivate", helperBin + " unlink"}, fc.Calls)
	assert.True(t, d.Env.Equal(original))
}

func TestDeactivate_AppliesOutputDespiteFailure(t *testing.T) {
	fc := testutil.NewFakeCommander()
	var changes delta.Delta
	changes.Unset("VIRTUAL_ENV")
	resp := encoded(t, changes)
	resp.Err = &cmdexec.ExitError{Code: 3}
	fc.Responses[helperBin+" deactivate"] = resp
	d := &dispatch.Dispatcher{
		Commander: fc,
		HelperCmd: []string{helperBin},
		Env:       envtable.FromEnviron([]string{"VIRTUAL_ENV=/v", "PATH=/usr/bin"}),
	}

	d.Deactivate(context.Background())

	assert.Equal(t, []string{"PATH=/usr/bin"}, d.Env.Environ())
}

func TestRunAndApply_MalformedOutputIgnored(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"empty", ""},
		{"shell code", "export PATH=/evil; rm -rf ~"},
		{"wrong version", `{"version":9,"changes":[{"name":"X","value":"1"}]}`},
		{"truncated", `{"version":1,"changes":[{"name":"X"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := testutil.NewFakeCommander()
			fc.DefaultResponse = &testutil.Response{Output: []byte(tt.output)}
			d := &dispatch.Dispatcher{
				Commander: fc,
				HelperCmd: []string{helperBin},
				Env:       envtable.FromEnviron([]string{"PATH=/usr/bin"}),
			}
			original := d.Env.Clone()

			d.ActivateIfExisting(context.Background())
			d.Unlink(context.Background())

			assert.True(t, d.Env.Equal(original))
		})
	}
}

func TestRunAndApply_InvalidNamesDropped(t *testing.T) {
	fc := testutil.NewFakeCommander()
	fc.Register(helperBin+" activate", `{"version":1,"changes":[{"name":"A","value":"1"},{"name":"B;rm","value":"2"}]}`, nil)
	fc.Register(helperBin+" deactivate", "", nil)
	d := &dispatch.Dispatcher{Commander: fc, HelperCmd: []string{helperBin}, Env: envtable.New()}

	d.ActivateIfExisting(context.Background())

	assert.Equal(t, []string{"A=1"}, d.Env.Environ())
}

func TestRun_HelperCommandAndEnvironment(t *testing.T) {
	fc := testutil.NewFakeCommander()
	fc.DefaultResponse = &testutil.Response{}
	d := &dispatch.Dispatcher{
		Commander: fc,
		HelperCmd: []string{"/usr/local/bin/pyact", "helper"},
		Env:       envtable.FromEnviron([]string{"PATH=/usr/bin", "HOME=/home/u"}),
		ExtraEnv:  []string{"PYACT_DEBUG=1"},
	}

	d.Deactivate(context.Background())

	assert.Equal(t, []string{"/usr/local/bin/pyact helper deactivate"}, fc.Calls)
	require.Len(t, fc.EnvCalls, 1)
	assert.Equal(t, []string{"HOME=/home/u", "PATH=/usr/bin", "PYACT_DEBUG=1"}, fc.EnvCalls[0])
}

func TestRun_HelperSeesDeactivatedEnvironment(t *testing.T) {
	fc := testutil.NewFakeCommander()
	var unset delta.Delta
	unset.Unset("VIRTUAL_ENV")
	fc.Responses[helperBin+" deactivate"] = encoded(t, unset)
	fc.Register(helperBin+" activate", "", nil)
	d := &dispatch.Dispatcher{
		Commander: fc,
		HelperCmd: []string{helperBin},
		Env:       envtable.FromEnviron([]string{"VIRTUAL_ENV=/v"}),
	}

	d.ActivateIfExisting(context.Background())

	require.Len(t, fc.EnvCalls, 2)
	assert.Equal(t, []string{"VIRTUAL_ENV=/v"}, fc.EnvCalls[0])
	assert.Empty(t, fc.EnvCalls[1])
}
