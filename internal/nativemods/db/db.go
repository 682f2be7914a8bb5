// Package db is the native module wiring SQL access into ox scripts (§4.1
// Domain stack: mattn/go-sqlite3, lib/pq, go-sql-driver/mysql, denisenkom/
// go-mssqldb), grounded on the teacher's internal/vm native-module pattern
// generalised by internal/ox/nativemodule.go. A Connection is a
// database/sql handle wrapped behind an object.Proxy (§4.4's "native
// payload" use case); Query returns rows as an ox.Input-backed cursor so a
// script drives it with the same for-loop convention as any other stream.
// Every blocking call — Open, Ping, Query, Exec, rows.Next, Close — runs
// under Context.Suspend (§5) so other contexts can still acquire the VM
// lock while the driver is waiting on the network or disk.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/loader"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/ox"
	"github.com/gongke-cn/ox/internal/value"
)

// driverNames maps the script-facing dialect name to the database/sql
// driver name registered by each blank import above.
var driverNames = map[string]string{
	"sqlite3":  "sqlite3",
	"postgres": "postgres",
	"mysql":    "mysql",
	"mssql":    "sqlserver",
}

// conn is a Connection proxy's private payload (object.Proxy.Priv).
type conn struct {
	db *sql.DB
}

// rowCursor is a Query result's private payload, driving the Input next
// closure.
type rowCursor struct {
	rows *sql.Rows
	cols []string
}

// Register installs the "db" module under vm, reachable from script code
// as `ox_load("db.oxn")`/an `import ... from "db"` (§6).
func Register(vm *ox.VM) {
	vm.RegisterNativeModule("db", load, exec)
}

// load builds the Connection template object (its method table) once per
// module load, shared by every proxy instance created via Open.
func load(c *ox.Context, sc *loader.Script) error {
	tmpl := c.NewObject()
	c.DefineConst(tmpl, "query", c.NativeMethod("query", 2, queryMethod))
	c.DefineConst(tmpl, "exec", c.NativeMethod("exec", 2, execMethod))
	c.DefineConst(tmpl, "close", c.NativeMethod("close", 0, closeMethod))
	sc.DefineConst("$connTemplate", tmpl)
	return nil
}

// exec installs the module's public entry point: `open(driver, dsn)`.
func exec(c *ox.Context, sc *loader.Script) error {
	tmpl, _ := c.Lookup(value.FromObject(sc), c.Key("$connTemplate"))
	sc.Export("open", c.NativeMethod("open", 2, openFunc(tmpl)))
	return nil
}

// openFunc returns the native `open` function bound to tmpl, the shared
// Connection method table built by load.
func openFunc(tmpl value.Value) function.NativeFunc {
	return func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		c, ok := fnCtx.(*ox.Context)
		if !ok {
			return value.Nil, fnCtx.Throw(errtypes.NewSystemError("db: open called outside an ox.Context", nil))
		}
		if len(args) < 2 {
			return value.Nil, c.Throw(errtypes.NewTypeError("open(driver, dsn) requires two arguments", nil))
		}
		dialect, ok := ox.AsString(args[0])
		if !ok {
			return value.Nil, c.Throw(errtypes.NewTypeError("open: driver must be a string", nil))
		}
		dsn, ok := ox.AsString(args[1])
		if !ok {
			return value.Nil, c.Throw(errtypes.NewTypeError("open: dsn must be a string", nil))
		}
		driverName, ok := driverNames[dialect]
		if !ok {
			return value.Nil, c.Throw(errtypes.NewRangeError(fmt.Sprintf("db: unknown driver %q", dialect), nil))
		}

		var handle *sql.DB
		err := c.Suspend(func() error {
			var openErr error
			handle, openErr = sql.Open(driverName, dsn)
			if openErr != nil {
				return openErr
			}
			return handle.Ping()
		})
		if err != nil {
			return value.Nil, c.Throw(errtypes.NewSystemError(fmt.Sprintf("db: open %s: %v", dialect, err), nil))
		}

		p := object.NewProxy(tmpl, &conn{db: handle})
		c.VM().GC.Track(p)
		return value.FromObject(p), nil
	}
}

// queryMethod implements Connection.query(sql, ...args), returning an
// ox.Input that yields one row per Next call, each row a tracked array of
// column values (§3's "input" heap kind generalised to a row cursor).
func queryMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, cn, err := connFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	if len(args) == 0 {
		return value.Nil, c.Throw(errtypes.NewTypeError("query requires a SQL string", nil))
	}
	query, ok := ox.AsString(args[0])
	if !ok {
		return value.Nil, c.Throw(errtypes.NewTypeError("query: first argument must be a string", nil))
	}
	sqlArgs := toDriverArgs(args[1:])

	var rows *sql.Rows
	var cols []string
	err = c.Suspend(func() error {
		var qerr error
		rows, qerr = cn.db.Query(query, sqlArgs...)
		if qerr != nil {
			return qerr
		}
		cols, qerr = rows.Columns()
		return qerr
	})
	if err != nil {
		return value.Nil, c.Throw(errtypes.NewAccessError(fmt.Sprintf("db: query: %v", err), nil))
	}

	cur := &rowCursor{rows: rows, cols: cols}
	in := c.NewInput(
		func() (value.Value, bool, error) {
			var rowVal value.Value
			var ok bool
			suspendErr := c.Suspend(func() error {
				if !cur.rows.Next() {
					return cur.rows.Err()
				}
				ok = true
				return nil
			})
			if suspendErr != nil {
				return value.Nil, false, suspendErr
			}
			if !ok {
				return value.Nil, false, nil
			}
			rowVal, err := scanRow(c, cur)
			if err != nil {
				return value.Nil, false, err
			}
			return rowVal, true, nil
		},
		func() error { return cur.rows.Close() },
	)
	return in, nil
}

// execMethod implements Connection.exec(sql, ...args), returning the
// affected-row count as a Value.
func execMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, cn, err := connFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	if len(args) == 0 {
		return value.Nil, c.Throw(errtypes.NewTypeError("exec requires a SQL string", nil))
	}
	query, ok := ox.AsString(args[0])
	if !ok {
		return value.Nil, c.Throw(errtypes.NewTypeError("exec: first argument must be a string", nil))
	}
	sqlArgs := toDriverArgs(args[1:])

	var affected int64
	err = c.Suspend(func() error {
		res, eerr := cn.db.Exec(query, sqlArgs...)
		if eerr != nil {
			return eerr
		}
		affected, eerr = res.RowsAffected()
		return eerr
	})
	if err != nil {
		return value.Nil, c.Throw(errtypes.NewAccessError(fmt.Sprintf("db: exec: %v", err), nil))
	}
	return value.FromNumber(float64(affected)), nil
}

// closeMethod implements Connection.close().
func closeMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, cn, err := connFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	if suspendErr := c.Suspend(func() error { return cn.db.Close() }); suspendErr != nil {
		return value.Nil, c.Throw(errtypes.NewSystemError(fmt.Sprintf("db: close: %v", suspendErr), nil))
	}
	return value.Nil, nil
}

// connFromThis recovers the *conn payload from a Connection proxy's `this`,
// raising a catchable TypeError if called on the wrong kind of receiver.
func connFromThis(fnCtx function.Context, this value.Value) (*ox.Context, *conn, error) {
	c, ok := fnCtx.(*ox.Context)
	if !ok {
		return nil, nil, fnCtx.Throw(errtypes.NewSystemError("db: method called outside an ox.Context", nil))
	}
	p, ok := this.ObjectVal().(*object.Proxy)
	if !ok {
		return c, nil, c.Throw(errtypes.NewTypeError("db: method called on a non-Connection receiver", nil))
	}
	cn, ok := p.Priv().(*conn)
	if !ok {
		return c, nil, c.Throw(errtypes.NewTypeError("db: proxy does not carry a Connection", nil))
	}
	return c, cn, nil
}

// scanRow materialises the cursor's current row as a tracked Array of
// column values, converting each driver value to the nearest ox scalar
// (§4.1: int64/float64/bool pass through as Number/Bool, []byte/string
// become interned strings, nil becomes Null).
func scanRow(c *ox.Context, cur *rowCursor) (value.Value, error) {
	raw := make([]interface{}, len(cur.cols))
	ptrs := make([]interface{}, len(cur.cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := cur.rows.Scan(ptrs...); err != nil {
		return value.Nil, err
	}
	vals := make([]value.Value, len(raw))
	for i, v := range raw {
		vals[i] = convertColumn(c, v)
	}
	return c.NewArray(vals...), nil
}

func convertColumn(c *ox.Context, v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Nil
	case int64:
		return value.FromNumber(float64(t))
	case float64:
		return value.FromNumber(t)
	case bool:
		return value.FromBool(t)
	case []byte:
		return c.NewString(string(t))
	case string:
		return c.NewString(t)
	default:
		return c.NewString(fmt.Sprintf("%v", t))
	}
}

// toDriverArgs converts ox Values to database/sql driver arguments: numbers,
// bools and strings pass through natively; every other value is bound as
// nil (SQL NULL).
func toDriverArgs(args []value.Value) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		switch {
		case a.Kind() == value.Number:
			out[i] = a.NumberVal()
		case a.Kind() == value.Bool:
			out[i] = a.Bool()
		default:
			if s, ok := ox.AsString(a); ok {
				out[i] = s
			} else {
				out[i] = nil
			}
		}
	}
	return out
}
