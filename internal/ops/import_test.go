package ops

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/Talal-Sharaa/ReceIT/internal/receit"
)

func writeImport(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadImportFile_ValidDocument(t *testing.T) {
	path := writeImport(t, `{
	  "receits": [
	    {
	      "title": "Migrate billing job",
	      "priority": "High",
	      "category": "Development",
	      "effort": "3",
	      "startDate": "2026-06-01",
	      "dueDate": "2026-06-10",
	      "status": "Done",
	      "notes": ["carried over from the old tracker"]
	    }
	  ]
	}`)

	records, err := ReadImportFile(path)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "Migrate billing job", records[0].Title)
	assert.Equal(t, 3.0, records[0].Effort, "string efforts are coerced")
	assert.Equal(t, []string{"carried over from the old tracker"}, records[0].Notes)
}

func TestReadImportFile_SchemaViolation(t *testing.T) {
	path := writeImport(t, `{
	  "receits": [
	    {"title": "No priority", "category": "Development", "startDate": "2026-06-01", "dueDate": "2026-06-02"}
	  ]
	}`)

	_, err := ReadImportFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "schema check")
}

func TestReadImportFile_ValidationFailure(t *testing.T) {
	path := writeImport(t, `{
	  "receits": [
	    {"title": "ok", "priority": "Low", "category": "Development", "startDate": "2026-06-10", "dueDate": "2026-06-01"}
	  ]
	}`)

	_, err := ReadImportFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "receits[0]")
}

func TestReadImportFile_NotJSON(t *testing.T) {
	path := writeImport(t, "title,priority\nfoo,High")
	_, err := ReadImportFile(path)
	assert.Error(t, err)
}

func TestImportReceits_LoadsIntoStore(t *testing.T) {
	path := writeImport(t, `{
	  "receits": [
	    {"title": "Imported one", "priority": "Low", "category": "Development", "startDate": "2026-06-01", "dueDate": "2026-06-02"},
	    {"title": "Imported two", "priority": "Medium", "category": "Marketing", "startDate": "2026-06-01", "dueDate": "2026-06-03"}
	  ]
	}`)

	fs, err := receit.NewFileStorage(t.TempDir())
	assert.NoError(t, err)
	store := receit.NewStore(fs.ForOwner("alice"), receit.StoreOptions{
		OwnerID: "alice",
		Logger:  log.New(io.Discard),
	})
	store.Load()

	n, err := ImportReceits(store, path)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	titles := []string{}
	for _, r := range store.ListAll() {
		titles = append(titles, r.Title)
	}
	assert.Contains(t, titles, "Imported one")
	assert.Contains(t, titles, "Imported two")
}
