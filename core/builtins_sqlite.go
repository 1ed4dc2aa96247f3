package orion

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Databases are keyed by the path they were opened with; scripts pass that
// path back as the handle.

func (in *Interpreter) getDB(name string, handle Value) (*sql.DB, error) {
	if handle.Kind != ValString {
		return nil, typeErrorf(name, "database path", handle)
	}
	db, ok := in.dbs[handle.Str]
	if !ok {
		return nil, errorf(IOError, "%s: database %q not open", name, handle.Str)
	}
	return db, nil
}

// builtinDBOpen: (db:open path) opens or creates a sqlite database.
func (in *Interpreter) builtinDBOpen(args []Value) (Value, error) {
	path := args[0]
	if path.Kind != ValString {
		return Value{}, typeErrorf("db:open", "string path", path)
	}
	if _, exists := in.dbs[path.Str]; exists {
		return Value{}, errorf(IOError, "db:open: database %q already open", path.Str)
	}
	db, err := sql.Open("sqlite3", path.Str)
	if err != nil {
		return Value{}, wrapf(IOError, err, "db:open %s", path.Str)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return Value{}, wrapf(IOError, err, "db:open %s", path.Str)
	}
	in.dbs[path.Str] = db
	if in.Trace && in.Logger != nil {
		in.Logger.Printf("opened database: %s", path.Str)
	}
	return path, nil
}

func (in *Interpreter) builtinDBClose(args []Value) (Value, error) {
	db, err := in.getDB("db:close", args[0])
	if err != nil {
		return Value{}, err
	}
	delete(in.dbs, args[0].Str)
	if err := db.Close(); err != nil {
		return Value{}, wrapf(IOError, err, "db:close %s", args[0].Str)
	}
	return NilVal(), nil
}

// builtinDBList: (db:list) is the sorted paths of the open databases.
func (in *Interpreter) builtinDBList(args []Value) (Value, error) {
	names := make([]string, 0, len(in.dbs))
	for name := range in.dbs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Value, len(names))
	for i, name := range names {
		out[i] = StringVal(name)
	}
	return ListVal(out), nil
}

// builtinDBQuery: (db:query db sql param...) returns a list of row objects
// keyed by column name.
func (in *Interpreter) builtinDBQuery(args []Value) (Value, error) {
	db, err := in.getDB("db:query", args[0])
	if err != nil {
		return Value{}, err
	}
	query, params, err := sqlArgs("db:query", args[1:])
	if err != nil {
		return Value{}, err
	}
	rows, err := db.Query(query, params...)
	if err != nil {
		return Value{}, wrapf(IOError, err, "db:query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Value{}, wrapf(IOError, err, "db:query")
	}
	results := []Value{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Value{}, wrapf(IOError, err, "db:query")
		}
		row := make(map[string]Value, len(cols))
		for i, col := range cols {
			row[col] = fromSQL(vals[i])
		}
		results = append(results, ObjectVal(row))
	}
	if err := rows.Err(); err != nil {
		return Value{}, wrapf(IOError, err, "db:query")
	}
	return ListVal(results), nil
}

// builtinDBExec: (db:exec db sql param...) returns an object with
// rows_affected and last_insert_id.
func (in *Interpreter) builtinDBExec(args []Value) (Value, error) {
	db, err := in.getDB("db:exec", args[0])
	if err != nil {
		return Value{}, err
	}
	stmt, params, err := sqlArgs("db:exec", args[1:])
	if err != nil {
		return Value{}, err
	}
	result, err := db.Exec(stmt, params...)
	if err != nil {
		return Value{}, wrapf(IOError, err, "db:exec")
	}
	ra, _ := result.RowsAffected()
	li, _ := result.LastInsertId()
	return ObjectVal(map[string]Value{
		"rows_affected":  intOrFloat(ra),
		"last_insert_id": intOrFloat(li),
	}), nil
}

// intOrFloat keeps n an Int when it fits in 32 bits and falls back to a
// Float otherwise.
func intOrFloat(n int64) Value {
	if n < -1<<31 || n > 1<<31-1 {
		return FloatVal(float32(n))
	}
	return IntVal(int32(n))
}

func sqlArgs(name string, args []Value) (string, []any, error) {
	if args[0].Kind != ValString {
		return "", nil, typeErrorf(name, "sql string", args[0])
	}
	params := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		p, err := toSQL(name, a)
		if err != nil {
			return "", nil, err
		}
		params = append(params, p)
	}
	return args[0].Str, params, nil
}

// toSQL converts a scalar Value into a driver parameter.
func toSQL(name string, v Value) (any, error) {
	switch v.Kind {
	case ValNil:
		return nil, nil
	case ValBool:
		return v.Bool, nil
	case ValInt:
		return int64(v.Int), nil
	case ValFloat:
		return float64(v.Float), nil
	case ValString:
		return v.Str, nil
	}
	return nil, typeErrorf(name, "scalar parameter", v)
}

// fromSQL converts a scanned column into a Value.
func fromSQL(v any) Value {
	switch x := v.(type) {
	case nil:
		return NilVal()
	case int64:
		return intOrFloat(x)
	case float64:
		return FloatVal(float32(x))
	case bool:
		return BoolVal(x)
	case []byte:
		return StringVal(string(x))
	case string:
		return StringVal(x)
	case time.Time:
		return StringVal(x.Format(time.RFC3339))
	default:
		return StringVal(fmt.Sprint(x))
	}
}
