package sqlite

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"golang.org/x/text/cases"
	msqlite "modernc.org/sqlite"
)

// foldCaseFunc is the SQL name of the Unicode case-folding function.
const foldCaseFunc = "fold_case"

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs the custom SQL functions. The driver keeps a
// process-wide registry applied to every new connection.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = msqlite.RegisterDeterministicScalarFunction(foldCaseFunc, 1, foldCaseValue)
	})
	return registerErr
}

func foldCaseValue(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return foldCase(v), nil
	case []byte:
		return foldCase(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument %T", foldCaseFunc, v)
	}
}

// foldCase applies Unicode case folding. Casers are stateful, so a
// new one is built per call.
func foldCase(s string) string {
	return cases.Fold().String(s)
}
