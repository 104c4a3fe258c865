package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("/srv/migrations/002_add_index.sql"))
}

func TestFilesSortsSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "001_a.sql"), filepath.Join(dir, "002_b.sql")}, files)
}

func TestFilesMissingDirectory(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestSchemaFileDefinesConstraints(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	for _, name := range []string{
		"users_username_key", "departments_name_key", "courses_name_key",
		"enrollments_pkey", "lecturer_courses_pkey",
		"students_department_id_fkey", "lecturers_department_id_fkey", "courses_department_id_fkey",
	} {
		assert.Contains(t, string(content), name)
	}
}
