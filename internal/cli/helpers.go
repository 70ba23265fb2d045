// Shared helpers for stmt CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/internal/paths"
	"github.com/mesh-intelligence/statements/internal/sqlite"
	"github.com/mesh-intelligence/statements/pkg/types"
)

// resolveDataDir applies flag > config.yaml > env > default precedence.
func (a *app) resolveDataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.flags.dataDir, a.settings.dataDir)
	if err != nil {
		return "", sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	return dir, nil
}

// attach creates a SQLite backend over the resolved data directory and
// attaches it. The caller must Detach the returned backend.
func (a *app) attach() (*sqlite.Backend, error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, err
	}
	cfg := types.Config{
		Backend:     a.settings.backend,
		DataDir:     dataDir,
		BusyTimeout: a.settings.busyTimeout,
	}
	backend := sqlite.NewBackend(a.logger)
	if err := backend.Attach(cfg); err != nil {
		return nil, sysError(fmt.Errorf("attach backend: %w", err))
	}
	return backend, nil
}

// withBackend attaches a backend, runs fn and detaches. Errors from fn are
// classified for the exit code.
func (a *app) withBackend(fn func(b *sqlite.Backend) error) (err error) {
	backend, err := a.attach()
	if err != nil {
		return err
	}
	defer func() {
		if derr := backend.Detach(); derr != nil && err == nil {
			err = sysError(fmt.Errorf("detach backend: %w", derr))
		}
	}()
	return classify(fn(backend))
}

// classify tags operation errors: invalid input and failed conditions are
// user errors, anything else is a system error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}
	for _, userErr := range []error{
		types.ErrNotFound,
		types.ErrConditionNotSatisfied,
		types.ErrInvalidCondition,
		types.ErrInvalidKey,
		types.ErrInvalidColumn,
		types.ErrInvalidLocation,
		types.ErrInvalidOperation,
	} {
		if errors.Is(err, userErr) {
			return userError(err)
		}
	}
	return sysError(err)
}

// locationArgs builds a Location from <namespace> <table> <partition-key>
// [clustering-key].
func locationArgs(args []string) (types.Location, error) {
	loc := types.Location{Namespace: args[0], Table: args[1]}
	pk, err := parseKey(args[2])
	if err != nil {
		return types.Location{}, userError(fmt.Errorf("partition key: %w", err))
	}
	loc.Partition = pk
	if len(args) > 3 {
		ck, err := parseKey(args[3])
		if err != nil {
			return types.Location{}, userError(fmt.Errorf("clustering key: %w", err))
		}
		loc.Clustering = ck
	}
	return loc, nil
}

// parseKey parses "name=value[,name=value...]". Values become int64 when
// integral, bool for "true"/"false", and strings otherwise.
func parseKey(s string) (types.Key, error) {
	if s == "" {
		return nil, nil
	}
	var key types.Key
	for _, part := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(part, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q is not name=value", types.ErrInvalidKey, part)
		}
		key = append(key, types.Column{Name: name, Value: types.ParseKeyValue(value)})
	}
	return key, nil
}

// expressionOperators is ordered so two-character operators match first.
var expressionOperators = []types.Operator{
	types.OpGTE, types.OpLTE, types.OpNE, types.OpEQ, types.OpGT, types.OpLT,
}

// parseExpression parses "column<op>value", for example "qty>=3" or
// "status!=closed".
func parseExpression(s string) (types.Expression, error) {
	for i := 0; i < len(s); i++ {
		for _, op := range expressionOperators {
			if strings.HasPrefix(s[i:], string(op)) {
				column := strings.TrimSpace(s[:i])
				value := strings.TrimSpace(s[i+len(op):])
				e := types.Expression{Column: column, Operator: op, Value: parseScalar(value)}
				if err := e.Validate(); err != nil {
					return types.Expression{}, err
				}
				return e, nil
			}
		}
	}
	return types.Expression{}, fmt.Errorf("%w: %q has no comparison operator", types.ErrInvalidCondition, s)
}

// parseScalar interprets s as int64, float64, bool, nil ("null") or, failing
// those, a string. Surrounding double quotes force a string.
func parseScalar(s string) any {
	if unq, err := strconv.Unquote(s); err == nil && strings.HasPrefix(s, `"`) {
		return unq
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	return s
}

// parseExpressions parses every --if flag value.
func parseExpressions(raw []string) ([]types.Expression, error) {
	exprs := make([]types.Expression, 0, len(raw))
	for _, r := range raw {
		e, err := parseExpression(r)
		if err != nil {
			return nil, userError(err)
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// writeResults prints results as JSON or as one line per row.
func writeResults(w io.Writer, jsonMode bool, results []types.Result) error {
	if jsonMode {
		if results == nil {
			results = []types.Result{}
		}
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return sysError(fmt.Errorf("marshal results: %w", err))
		}
		fmt.Fprintln(w, string(out))
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Partition, r.Clustering, formatValues(r.Values))
	}
	return nil
}

// formatValues renders values as name=value pairs in name order.
func formatValues(values map[string]any) string {
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%v", n, values[n])
	}
	return strings.Join(parts, " ")
}

// locationArgsRange is the positional argument rule shared by get, put and
// delete.
var locationArgsRange = cobra.RangeArgs(3, 4)
