package ability

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "assistify/internal/platform/errors"
)

type recordingExec struct {
	calls []string
	out   any
	err   error
}

func (r *recordingExec) Run(_ context.Context, m Meta, _ map[string]any) (any, error) {
	r.calls = append(r.calls, m.ID)
	return r.out, r.err
}

func TestCatalog_RegisterValidatesID(t *testing.T) {
	c := NewCatalog()
	err := c.Register(Meta{ID: "  "}, nil)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))

	require.NoError(t, c.Register(Meta{ID: "x/y"}, nil))
	m, ok := c.Describe("x/y")
	require.True(t, ok)
	assert.Equal(t, "x/y", m.Label, "label defaults to id")
}

func TestCatalog_ExecuteUnknown(t *testing.T) {
	_, err := NewCatalog().Execute(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestCatalog_LocalFuncWinsOverExecutor(t *testing.T) {
	ex := &recordingExec{out: "remote"}
	c := NewCatalog(WithExecutor(ex), WithMetas(Meta{ID: "a"}, Meta{ID: "b"}))
	require.NoError(t, c.Register(Meta{ID: "a"}, func(_ context.Context, p map[string]any) (any, error) {
		require.NotNil(t, p, "params are never nil")
		return "local", nil
	}))

	out, err := c.Execute(context.Background(), "a", nil)
	require.NoError(t, err)
	assert.Equal(t, "local", out)

	out, err = c.Execute(context.Background(), "b", map[string]any{"k": 1})
	require.NoError(t, err)
	assert.Equal(t, "remote", out)
	assert.Equal(t, []string{"b"}, ex.calls)
}

func TestCatalog_NoBackend(t *testing.T) {
	c := NewCatalog(WithMetas(Meta{ID: "a"}))
	_, err := c.Execute(context.Background(), "a", nil)
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestCatalog_ExecutorErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	c := NewCatalog(WithExecutor(&recordingExec{err: boom}), WithMetas(Meta{ID: "a"}))
	_, err := c.Execute(context.Background(), "a", nil)
	assert.Same(t, boom, err)
}

func TestCatalog_ListSorted(t *testing.T) {
	c := NewCatalog(WithMetas(
		Meta{ID: "z", Category: "b"},
		Meta{ID: "y", Category: "a"},
		Meta{ID: "x", Category: "b"},
	))
	var ids []string
	for _, m := range c.List() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"y", "x", "z"}, ids)
}

func TestBuiltin_UniqueAndConsistent(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Builtin() {
		require.False(t, seen[m.ID], "duplicate %s", m.ID)
		seen[m.ID] = true
		assert.False(t, m.Destructive && m.ReadOnly, "%s cannot be both destructive and read only", m.ID)
		assert.NotEmpty(t, m.Category, m.ID)
	}
	assert.True(t, seen[HelpID])
}

func TestBuiltinCatalog_HelpRunsLocally(t *testing.T) {
	ex := &recordingExec{}
	c := NewBuiltinCatalog(ex)

	out, err := c.Execute(context.Background(), HelpID, nil)
	require.NoError(t, err)
	assert.Empty(t, ex.calls)

	body, ok := out.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, body["sections"])

	m, ok := c.Describe("afw/orders/refund")
	require.True(t, ok)
	assert.True(t, m.Destructive)
}

func TestHelp_CustomerScopeHidesAdminCategories(t *testing.T) {
	c := NewBuiltinCatalog(nil)

	out, err := c.Execute(context.Background(), HelpID, map[string]any{"scope": "customer"})
	require.NoError(t, err)
	b, err := json.Marshal(out)
	require.NoError(t, err)

	assert.Contains(t, string(b), `"category":"customer"`)
	assert.NotContains(t, string(b), `"category":"orders"`)

	out, err = c.Execute(context.Background(), HelpID, nil)
	require.NoError(t, err)
	b, err = json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"category":"orders"`)
}
