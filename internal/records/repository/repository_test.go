package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/service"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
	recordsDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/records/domain"
)

func testCrypter(t *testing.T) *cryptoService.SymmetricCrypter {
	t.Helper()
	crypter, err := cryptoService.NewEphemeralCrypter(nil)
	require.NoError(t, err)
	t.Cleanup(crypter.SecureWipe)
	return crypter
}

func testMemoryLogger(t *testing.T) *logging.FileLogger {
	t.Helper()
	logger, err := logging.NewFileLogger(logging.FileLoggerConfig{Source: "test"})
	require.NoError(t, err)
	return logger
}

func testStudent(id, name string) recordsDomain.Student {
	return recordsDomain.Student{
		ID:         id,
		Name:       name,
		Age:        16,
		Gender:     "F",
		Grade:      "10th",
		Discipline: "Science",
		Address:    "12 School Road, Ikeja",
		Phone:      "+2348031234567",
		CGPA:       3.8,
	}
}

func newStudentRepo(t *testing.T, dir string) *StudentRepository {
	t.Helper()
	repo, err := NewStudentRepository(filepath.Join(dir, studentsFile), testCrypter(t), testMemoryLogger(t))
	require.NoError(t, err)
	return repo
}

func TestRepositoryConstructorValidation(t *testing.T) {
	crypter := testCrypter(t)

	t.Run("missing path", func(t *testing.T) {
		_, err := NewRepository("student", "", crypter, nil, recordsDomain.ParseStudent)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("missing crypter", func(t *testing.T) {
		_, err := NewRepository("student", "x.txt", nil, nil, recordsDomain.ParseStudent)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("missing parse function", func(t *testing.T) {
		_, err := NewRepository[recordsDomain.Student]("student", "x.txt", crypter, nil, nil)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestRepositoryCRUD(t *testing.T) {
	repo := newStudentRepo(t, t.TempDir())

	student := testStudent("STU0001", "John Doe")
	require.NoError(t, repo.Save(student))
	assert.True(t, repo.Dirty())
	assert.True(t, repo.ExistsByID("STU0001"))
	assert.Equal(t, 1, repo.Count())

	t.Run("save duplicate conflicts", func(t *testing.T) {
		assert.ErrorIs(t, repo.Save(student), errors.ErrConflict)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID("STU0001")
		require.NoError(t, err)
		assert.Equal(t, student, found)

		_, err = repo.FindByID("STU9999")
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		student.CGPA = 3.9
		require.NoError(t, repo.Update(student))
		found, err := repo.FindByID("STU0001")
		require.NoError(t, err)
		assert.Equal(t, 3.9, found.CGPA)

		assert.ErrorIs(t, repo.Update(testStudent("STU9999", "Nobody")), errors.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID("STU0001"))
		assert.False(t, repo.ExistsByID("STU0001"))
		assert.ErrorIs(t, repo.DeleteByID("STU0001"), errors.ErrNotFound)
	})
}

func TestRepositoryRejectsInvalidRecords(t *testing.T) {
	repo := newStudentRepo(t, t.TempDir())

	invalid := testStudent("STU0002", "Jane Doe")
	invalid.Phone = "not a phone"
	assert.ErrorIs(t, repo.Save(invalid), errors.ErrInvalidInput)
	assert.False(t, repo.Dirty())
}

func TestRepositoryPersistAndReload(t *testing.T) {
	dir := t.TempDir()
	crypter := testCrypter(t)

	repo, err := NewStudentRepository(filepath.Join(dir, studentsFile), crypter, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(testStudent("STU0001", "John Doe")))
	require.NoError(t, repo.Save(testStudent("STU0002", "Jane Doe")))
	require.NoError(t, repo.Persist())
	assert.False(t, repo.Dirty())

	// The file on disk must be sealed lines, never plain CSV.
	raw, err := os.ReadFile(filepath.Join(dir, studentsFile))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "John Doe")

	// A second repository over the same file and engine sees both records.
	reloaded, err := NewStudentRepository(filepath.Join(dir, studentsFile), crypter, nil)
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []string{"STU0001", "STU0002"}, reloaded.IDs())
	assert.Zero(t, reloaded.CorruptLines())
}

func TestRepositoryLoadSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	crypter := testCrypter(t)
	logger := testMemoryLogger(t)
	path := filepath.Join(dir, studentsFile)

	sealed, err := crypter.EncryptEncode(testStudent("STU0001", "John Doe").CSV())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(sealed+"\nnot-valid-base64!!\n"), 0o600))

	repo, err := NewStudentRepository(path, crypter, logger)
	require.NoError(t, err)
	require.NoError(t, repo.Load())

	assert.Equal(t, 1, repo.Count())
	assert.Equal(t, 1, repo.CorruptLines())

	warnings := logger.FilterByLevel(logging.LevelWarn)
	assert.Len(t, warnings, 1, "exactly one skipped line must be logged")
}

func TestRepositoryLoadMissingFile(t *testing.T) {
	repo := newStudentRepo(t, t.TempDir())
	require.NoError(t, repo.Load())
	assert.Zero(t, repo.Count())
	assert.True(t, repo.Loaded())
}

func TestStudentQueries(t *testing.T) {
	repo := newStudentRepo(t, t.TempDir())

	a := testStudent("STU0001", "John Doe")
	b := testStudent("STU0002", "Jane Doe")
	b.Grade = "11th"
	b.Discipline = "Arts"
	b.CGPA = 2.1
	require.NoError(t, repo.Save(a))
	require.NoError(t, repo.Save(b))

	t.Run("by attribute", func(t *testing.T) {
		arts := repo.ByAttribute(func(s recordsDomain.Student) string { return s.Discipline }, "Arts")
		require.Len(t, arts, 1)
		assert.Equal(t, "STU0002", arts[0].ID)
	})

	t.Run("by cgpa range", func(t *testing.T) {
		high := repo.ByCGPARange(3.0, 4.0)
		require.Len(t, high, 1)
		assert.Equal(t, "STU0001", high[0].ID)
	})

	t.Run("group by discipline", func(t *testing.T) {
		groups := repo.GroupByDiscipline()
		assert.Len(t, groups["Science"], 1)
		assert.Len(t, groups["Arts"], 1)
	})

	t.Run("count by grade", func(t *testing.T) {
		counts := repo.CountByGrade()
		assert.Equal(t, 1, counts["10th"])
		assert.Equal(t, 1, counts["11th"])
	})
}
