package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func doc(id, data string) Document {
	return Document{ID: id, Data: json.RawMessage(data)}
}

// exerciseSink runs the behaviour every sink must share
func exerciseSink(t *testing.T, sink Sink) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		collections, err := sink.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, collections)
	})

	t.Run("save and load keeps order", func(t *testing.T) {
		err := sink.SaveAll(ctx, Collections{
			CollectionTasks: {
				doc("t2", `{"id":"t2","title":"Second","urgency":2}`),
				doc("t1", `{"id":"t1","title":"First","cost":12.5}`),
			},
			CollectionPeople: {
				doc("p1", `{"id":"p1","first_name":"Ann","groups":["family"]}`),
			},
		})
		require.NoError(t, err)

		collections, err := sink.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, collections[CollectionTasks], 2)
		assert.Equal(t, "t2", collections[CollectionTasks][0].ID)
		assert.Equal(t, "t1", collections[CollectionTasks][1].ID)
		assert.JSONEq(t, `{"id":"t1","title":"First","cost":12.5}`, string(collections[CollectionTasks][1].Data))
		assert.JSONEq(t, `{"id":"p1","first_name":"Ann","groups":["family"]}`, string(collections[CollectionPeople][0].Data))
	})

	t.Run("save replaces named collections only", func(t *testing.T) {
		err := sink.SaveAll(ctx, Collections{
			CollectionTasks: {doc("t3", `{"id":"t3","title":"Third"}`)},
		})
		require.NoError(t, err)

		collections, err := sink.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, collections[CollectionTasks], 1)
		assert.Equal(t, "t3", collections[CollectionTasks][0].ID)
		assert.Len(t, collections[CollectionPeople], 1)
	})
}

func TestSQLiteSink(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "lifeos.db")
	sink, err := NewSQLiteSink(zaptest.NewLogger(t), dbPath)
	require.NoError(t, err)
	defer sink.Close()

	exerciseSink(t, sink)

	count, err := sink.Count(context.Background(), CollectionTasks)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteSink_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lifeos.db")
	ctx := context.Background()

	sink, err := NewSQLiteSink(zaptest.NewLogger(t), dbPath)
	require.NoError(t, err)
	require.NoError(t, sink.SaveAll(ctx, Collections{
		CollectionAssets: {doc("a1", `{"id":"a1","name":"Car"}`)},
	}))
	require.NoError(t, sink.Close())

	sink, err = NewSQLiteSink(zaptest.NewLogger(t), dbPath)
	require.NoError(t, err)
	defer sink.Close()

	collections, err := sink.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, collections[CollectionAssets], 1)
	assert.Equal(t, "a1", collections[CollectionAssets][0].ID)
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "lifeos.yaml")
	sink, err := NewFileSink(zaptest.NewLogger(t), path)
	require.NoError(t, err)
	defer sink.Close()

	exerciseSink(t, sink)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "saved_at:")
	assert.Contains(t, string(content), "title: Third")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileSink_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifeos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collections: [oops"), 0644))

	sink, err := NewFileSink(zaptest.NewLogger(t), path)
	require.NoError(t, err)

	_, err = sink.LoadAll(context.Background())
	assert.Error(t, err)
}

func TestPgSink(t *testing.T) {
	dsn := os.Getenv("LIFEOS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LIFEOS_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	sink, err := NewPgSink(ctx, zaptest.NewLogger(t), dsn)
	require.NoError(t, err)
	defer sink.Close()

	_, err = sink.pool.Exec(ctx, `DELETE FROM documents`)
	require.NoError(t, err)

	exerciseSink(t, sink)
}

func TestOpen(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()
	ctx := context.Background()

	sink, err := Open(ctx, logger, Options{Driver: DriverSQLite, SQLitePath: filepath.Join(dir, "a.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSink{}, sink)
	sink.Close()

	sink, err = Open(ctx, logger, Options{Driver: DriverFile, FilePath: filepath.Join(dir, "a.yaml")})
	require.NoError(t, err)
	assert.IsType(t, &FileSink{}, sink)
	sink.Close()

	_, err = Open(ctx, logger, Options{Driver: "mongo"})
	assert.Error(t, err)
}
