package sqlgraph

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/syssam/boxql/dialect/sql"
)

// fieldIndex maps normalized column names to struct field index paths.
type fieldIndex struct {
	byName map[string][]int
}

var structIndexCache sync.Map // reflect.Type -> *fieldIndex

// ScanStruct scans the current row of rows into a new T. T must be a struct.
// Columns map to fields through the `sql:"name"` tag, or else through the
// field name compared case-insensitively. Columns without a field are
// discarded; a field tagged `sql:"-"` is never set.
func ScanStruct[T any](rows sql.ColumnScanner) (T, error) {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return zero, fmt.Errorf("sqlgraph: scan: %T is not a struct", zero)
	}
	cols, err := rows.Columns()
	if err != nil {
		return zero, fmt.Errorf("sqlgraph: scan: %w", err)
	}
	idx := structIndex(rt)
	rv := reflect.New(rt).Elem()
	dests := make([]any, len(cols))
	for i, c := range cols {
		path, ok := idx.byName[normalize(c)]
		if !ok {
			dests[i] = new(any)
			continue
		}
		dests[i] = rv.FieldByIndex(path).Addr().Interface()
	}
	if err := rows.Scan(dests...); err != nil {
		return zero, fmt.Errorf("sqlgraph: scan: %w", err)
	}
	return rv.Interface().(T), nil
}

// ScanAll scans every remaining row of rows into a T and closes rows.
func ScanAll[T any](rows sql.ColumnScanner) (_ []T, err error) {
	defer func() {
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
	}()
	var vs []T
	for rows.Next() {
		v, err := ScanStruct[T](rows)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

// ScanMap scans the current row into a map keyed by column name. Byte
// slices are returned as strings.
func ScanMap(rows sql.ColumnScanner) (map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlgraph: scan: %w", err)
	}
	vals := make([]any, len(cols))
	dests := make([]any, len(cols))
	for i := range vals {
		dests[i] = &vals[i]
	}
	if err := rows.Scan(dests...); err != nil {
		return nil, fmt.Errorf("sqlgraph: scan: %w", err)
	}
	m := make(map[string]any, len(cols))
	for i, c := range cols {
		if b, ok := vals[i].([]byte); ok {
			m[c] = string(b)
			continue
		}
		m[c] = vals[i]
	}
	return m, nil
}

func structIndex(rt reflect.Type) *fieldIndex {
	if v, ok := structIndexCache.Load(rt); ok {
		return v.(*fieldIndex)
	}
	idx := &fieldIndex{byName: make(map[string][]int)}
	indexFields(rt, nil, idx)
	v, _ := structIndexCache.LoadOrStore(rt, idx)
	return v.(*fieldIndex)
}

func indexFields(rt reflect.Type, prefix []int, idx *fieldIndex) {
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		path := append(append([]int(nil), prefix...), i)
		tag := f.Tag.Get("sql")
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			indexFields(f.Type, path, idx)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag != "" {
			name, _, _ = strings.Cut(tag, ",")
		}
		// Outer fields shadow embedded ones.
		if _, ok := idx.byName[normalize(name)]; ok && len(path) > 1 {
			continue
		}
		idx.byName[normalize(name)] = path
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}
