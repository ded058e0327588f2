package cms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/craftbond/sitecms/internal/assets"
	"github.com/craftbond/sitecms/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func testStore(t *testing.T) *assets.Store {
	t.Helper()
	s, err := assets.NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func stageFile(t *testing.T, name string) assets.Upload {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged-"+name)
	require.NoError(t, os.WriteFile(path, []byte("image-bytes"), 0o644))
	return assets.Upload{TempPath: path, OriginalName: name, Field: "images"}
}

func str(s string) *string { return &s }

func intp(i int) *int { return &i }

func boolp(b bool) *bool { return &b }

func flex(values ...string) *domain.FlexStrings {
	f := domain.FlexFromForm(values)
	return &f
}

func testBus() EventBus.Bus {
	return EventBus.New()
}
