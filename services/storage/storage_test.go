package storage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.AttachmentBlob{}))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestDBStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDBStore(newTestDB(t))

	obj := storage.Object{
		Key:         "students/s1/reports/a.pdf",
		StudentID:   "s1",
		FileName:    "تقرير.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 body"),
	}
	require.NoError(t, store.Put(ctx, obj))

	got, err := store.Get(ctx, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, obj, *got)

	obj.Data = []byte("replaced")
	require.NoError(t, store.Put(ctx, obj))
	got, err = store.Get(ctx, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), got.Data)

	require.NoError(t, store.Delete(ctx, obj.Key))
	_, err = store.Get(ctx, obj.Key)
	assert.ErrorIs(t, err, storage.ErrAttachmentNotFound)
}

func TestDBStoreMissingKey(t *testing.T) {
	store := storage.NewDBStore(newTestDB(t))
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrAttachmentNotFound)
}

func TestEncryptedStore(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewDBStore(newTestDB(t))
	store := storage.NewEncryptedStore(inner, "correct horse battery staple")

	plain := []byte("sensitive diagnosis report")
	require.NoError(t, store.Put(ctx, storage.Object{Key: "k1", StudentID: "s1", FileName: "r.pdf", Data: plain}))

	raw, err := inner.Get(ctx, "k1")
	require.NoError(t, err)
	assert.NotContains(t, string(raw.Data), "sensitive")

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, plain, got.Data)

	wrongKey := storage.NewEncryptedStore(inner, "another passphrase")
	_, err = wrongKey.Get(ctx, "k1")
	assert.Error(t, err)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrAttachmentNotFound)
}

func TestGenerateKey(t *testing.T) {
	now := time.Unix(1700000000, 0)
	key := storage.GenerateKey("student-1", "Report.PDF", now)
	assert.True(t, strings.HasPrefix(key, "students/student-1/reports/1700000000_"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, storage.GenerateKey("student-1", "Report.PDF", now))
}
