package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/statements/pkg/types"
)

// runCLI executes the root command with isolated config and data
// directories and returns stdout and the command error.
func runCLI(t *testing.T, dirs cliDirs, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", dirs.config, "--data-dir", dirs.data}, args...))
	err := root.Execute()
	return out.String(), err
}

type cliDirs struct {
	config string
	data   string
}

func newDirs(t *testing.T) cliDirs {
	t.Helper()
	base := t.TempDir()
	return cliDirs{
		config: filepath.Join(base, "config"),
		data:   filepath.Join(base, "data"),
	}
}

func TestInitWritesConfigAndDatabase(t *testing.T) {
	dirs := newDirs(t)

	out, err := runCLI(t, dirs, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized storage in "+dirs.data)
	assert.FileExists(t, filepath.Join(dirs.config, configFileExt))
	assert.FileExists(t, filepath.Join(dirs.data, "statements.db"))

	s, err := loadSettings(dirs.config)
	require.NoError(t, err)
	assert.Equal(t, types.BackendSQLite, s.backend)
	assert.Equal(t, dirs.data, s.dataDir)
}

func TestInitKeepsExistingConfig(t *testing.T) {
	dirs := newDirs(t)
	require.NoError(t, os.MkdirAll(dirs.config, 0o755))
	path := filepath.Join(dirs.config, configFileExt)
	require.NoError(t, os.WriteFile(path, []byte("backend: sqlite\nbusy_timeout: 250\n"), 0o644))

	_, err := runCLI(t, dirs, "init")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "backend: sqlite\nbusy_timeout: 250\n", string(data))
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, types.BackendSQLite, s.backend)
	assert.Empty(t, s.dataDir)
	assert.Zero(t, s.busyTimeout)
}

func TestLoadSettingsRejectsBadLogLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("log_level: loud\n"), 0o644))

	_, err := loadSettings(dir)
	assert.Error(t, err)
}

func TestPutGetRoundTrip(t *testing.T) {
	dirs := newDirs(t)

	_, err := runCLI(t, dirs, "put", "shop", "orders", "customer=c1", "order_id=7", "--values", `{"item":"pen","qty":3}`)
	require.NoError(t, err)

	out, err := runCLI(t, dirs, "--json", "get", "shop", "orders", "customer=c1", "order_id=7")
	require.NoError(t, err)

	var results []types.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "pen", results[0].Values["item"])
	assert.EqualValues(t, 3, results[0].Values["qty"])
}

func TestGetMissingIsUserError(t *testing.T) {
	dirs := newDirs(t)

	_, err := runCLI(t, dirs, "get", "shop", "orders", "customer=c1", "order_id=7")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestConditionalPut(t *testing.T) {
	dirs := newDirs(t)
	args := []string{"put", "shop", "orders", "customer=c1", "order_id=7"}

	_, err := runCLI(t, dirs, append(args, "--values", `{"qty":3}`, "--if-exists")...)
	assert.ErrorIs(t, err, types.ErrConditionNotSatisfied)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = runCLI(t, dirs, append(args, "--values", `{"qty":3}`, "--if-not-exists")...)
	require.NoError(t, err)

	_, err = runCLI(t, dirs, append(args, "--values", `{"qty":4}`, "--if", "qty=2")...)
	assert.ErrorIs(t, err, types.ErrConditionNotSatisfied)

	_, err = runCLI(t, dirs, append(args, "--values", `{"qty":4}`, "--if", "qty>=3")...)
	require.NoError(t, err)

	_, err = runCLI(t, dirs, append(args, "--if-exists", "--if-not-exists")...)
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestScanAndDelete(t *testing.T) {
	dirs := newDirs(t)
	for _, id := range []string{"1", "2", "3"} {
		_, err := runCLI(t, dirs, "put", "shop", "orders", "customer=c1", "order_id="+id, "--values", `{"n":`+id+`}`)
		require.NoError(t, err)
	}

	out, err := runCLI(t, dirs, "--json", "scan", "shop", "orders", "customer=c1", "--desc", "--limit", "2")
	require.NoError(t, err)
	var results []types.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.EqualValues(t, 3, results[0].Values["n"])
	assert.EqualValues(t, 2, results[1].Values["n"])

	_, err = runCLI(t, dirs, "delete", "shop", "orders", "customer=c1", "order_id=2", "--if", "n=2")
	require.NoError(t, err)
	_, err = runCLI(t, dirs, "delete", "shop", "orders", "customer=c1", "order_id=2", "--if-exists")
	assert.ErrorIs(t, err, types.ErrConditionNotSatisfied)

	out, err = runCLI(t, dirs, "--json", "scan", "shop", "orders", "customer=c1")
	require.NoError(t, err)
	results = nil
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Len(t, results, 2)
}

func TestRouteCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		role string
	}{
		{"get", []string{"get", "ns", "t", "pk=1"}, "select"},
		{"scan", []string{"scan", "ns", "t", "pk=1"}, "select"},
		{"put", []string{"put", "ns", "t", "pk=1"}, "insert"},
		{"put if not exists", []string{"put", "ns", "t", "pk=1", "--if-not-exists"}, "insert"},
		{"put if exists", []string{"put", "ns", "t", "pk=1", "--if-exists"}, "update"},
		{"put if", []string{"put", "ns", "t", "pk=1", "--if", "a>1"}, "update"},
		{"delete", []string{"delete", "ns", "t", "pk=1"}, "delete"},
		{"delete if exists", []string{"delete", "ns", "t", "pk=1", "--if-exists"}, "delete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dirs := newDirs(t)
			out, err := runCLI(t, dirs, append([]string{"--json", "route"}, tt.args...)...)
			require.NoError(t, err)

			var got routeOutput
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.role, got.Role)
			assert.Equal(t, tt.args[0], got.Operation)
			assert.NotEmpty(t, got.SQL)
			assert.NoDirExists(t, dirs.data, "route must not open storage")
		})
	}
}

func TestExportImport(t *testing.T) {
	src := newDirs(t)
	_, err := runCLI(t, src, "put", "shop", "orders", "customer=c1", "order_id=1", "--values", `{"item":"pen"}`)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "records.jsonl")
	out, err := runCLI(t, src, "export", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 records")

	dst := newDirs(t)
	out, err = runCLI(t, dst, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 records")

	out, err = runCLI(t, dst, "--json", "get", "shop", "orders", "customer=c1", "order_id=1")
	require.NoError(t, err)
	assert.Contains(t, out, `"pen"`)
}

func TestParseKey(t *testing.T) {
	key, err := parseKey("customer=c1,order_id=7,open=true")
	require.NoError(t, err)
	assert.Equal(t, types.Key{
		{Name: "customer", Value: "c1"},
		{Name: "order_id", Value: int64(7)},
		{Name: "open", Value: true},
	}, key)

	key, err = parseKey("")
	require.NoError(t, err)
	assert.Nil(t, key)

	_, err = parseKey("customer")
	assert.ErrorIs(t, err, types.ErrInvalidKey)
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		in   string
		want types.Expression
	}{
		{"qty>=3", types.Expression{Column: "qty", Operator: types.OpGTE, Value: int64(3)}},
		{"qty<=3", types.Expression{Column: "qty", Operator: types.OpLTE, Value: int64(3)}},
		{"status!=closed", types.Expression{Column: "status", Operator: types.OpNE, Value: "closed"}},
		{"price>1.5", types.Expression{Column: "price", Operator: types.OpGT, Value: 1.5}},
		{"open=false", types.Expression{Column: "open", Operator: types.OpEQ, Value: false}},
		{"note=null", types.Expression{Column: "note", Operator: types.OpEQ, Value: nil}},
		{`code="7"`, types.Expression{Column: "code", Operator: types.OpEQ, Value: "7"}},
		{"qty<3", types.Expression{Column: "qty", Operator: types.OpLT, Value: int64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseExpression(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseExpression("qty")
	assert.ErrorIs(t, err, types.ErrInvalidCondition)
}
