package store

import (
	"context"
	"errors"
	"reflect"
	"strings"

	perr "assistify/internal/platform/errors"
)

// ErrTooManyRows is returned by One when the query yields more than one row
var ErrTooManyRows = errors.New("store: expected one row, got more")

// One scans exactly one row with scan; no rows is perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	item, err := scan(rows)
	if err != nil {
		return zero, err
	}
	if rows.Next() {
		return zero, ErrTooManyRows
	}
	return item, rows.Err()
}

// StructsByName maps every row into T, matching columns to `db` tags or field names case insensitively
func StructsByName[T any](ctx context.Context, q RowQuerier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rt := reflect.TypeFor[T]()
	fields := fieldIndex(rt)
	cols := rows.Columns()
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var out []T
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rv := reflect.New(rt).Elem()
		for i, c := range cols {
			if idx, ok := fields[strings.ToLower(c)]; ok {
				assign(rv.Field(idx), vals[i])
			}
		}
		out = append(out, rv.Interface().(T))
	}
	return out, rows.Err()
}

func fieldIndex(t reflect.Type) map[string]int {
	out := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := f.Tag.Get("db")
		if key == "" || key == "-" {
			key = f.Name
		}
		out[strings.ToLower(key)] = i
	}
	return out
}

// assign sets dst from a driver value, leaving dst zero when the types do not fit
func assign(dst reflect.Value, src any) {
	if src == nil {
		dst.SetZero()
		return
	}
	sv := reflect.ValueOf(src)
	if sv.Kind() == reflect.Pointer {
		if sv.IsNil() {
			dst.SetZero()
			return
		}
		sv = sv.Elem()
	}
	switch {
	case sv.Type().AssignableTo(dst.Type()):
		dst.Set(sv)
	case sv.Type().ConvertibleTo(dst.Type()) && sv.Kind() != reflect.Slice && dst.Kind() != reflect.String:
		dst.Set(sv.Convert(dst.Type()))
	case sv.Kind() == reflect.Slice && sv.Type().Elem().Kind() == reflect.Uint8 && dst.Kind() == reflect.String:
		dst.SetString(string(sv.Bytes()))
	case sv.Kind() == reflect.String && dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8:
		dst.SetBytes([]byte(sv.String()))
	}
}
