package docstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "shopease.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var out sample
	assert.ErrorIs(t, s.Load(ctx, "doc", &out), ErrNotFound)

	require.NoError(t, s.Save(ctx, "doc", sample{Name: "first"}))
	require.NoError(t, s.Save(ctx, "doc", sample{Name: "second", Items: map[string]int{"a": 1}}))

	require.NoError(t, s.Load(ctx, "doc", &out))
	assert.Equal(t, "second", out.Name)
	assert.Equal(t, 1, out.Items["a"])
}

func TestOpenPostgres_RejectsUnknownDriver(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "mysql", "dsn")
	require.Error(t, err)
}

func TestInstrument_CountsResults(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	s := Instrument(fs, reg)

	var out sample
	_ = s.Load(ctx, "doc", &out)
	require.NoError(t, s.Save(ctx, "doc", sample{Name: "x"}))
	require.NoError(t, s.Load(ctx, "doc", &out))

	ops := s.(*instrumented).ops
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("load", "doc", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("save", "doc", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("load", "doc", "ok")))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := Open(ctx, "file", filepath.Join(dir, "json"), "")
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, fs)

	sq, err := Open(ctx, "sqlite", filepath.Join(dir, "db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	assert.IsType(t, &SQLStore{}, sq)
	assert.FileExists(t, filepath.Join(dir, "db", "shopease.db"))

	_, err = Open(ctx, "bolt", dir, "")
	assert.Error(t, err)
}
