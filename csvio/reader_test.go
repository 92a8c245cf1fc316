package csvio

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"user-flag/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadRows_ParsesValidFile(t *testing.T) {
	req := require.New(t)
	path := writeTempFile(t, "input.csv",
		"user_id,message\nu1,hello world\nu2,\"quoted, with comma\"\n")

	rows, err := ReadRows(path, slog.Default())

	req.NoError(err)
	req.Len(rows, 2)
	req.Equal("u1", rows[0].UserID)
	req.Equal("hello world", rows[0].Message)
	req.Equal("quoted, with comma", rows[1].Message)
}

func TestReadRows_ToleratesBOMAndHeaderSpacing(t *testing.T) {
	req := require.New(t)
	path := writeTempFile(t, "bom.csv",
		"\uFEFFuser_id, message\nu1,hi\n")

	rows, err := ReadRows(path, slog.Default())

	req.NoError(err)
	req.Len(rows, 1)
}

func TestReadRows_SkipsBrokenRows(t *testing.T) {
	req := require.New(t)
	path := writeTempFile(t, "broken.csv",
		"user_id,message\nu1,first\nu2\n,missing user\nu3,\nu4,last\n")

	rows, err := ReadRows(path, slog.Default())

	req.NoError(err)
	// Short record, empty user_id and empty message are all dropped
	req.Len(rows, 2)
	req.Equal("u1", rows[0].UserID)
	req.Equal("u4", rows[1].UserID)
}

func TestReadRows_EmptyFile(t *testing.T) {
	req := require.New(t)
	path := writeTempFile(t, "empty.csv", "")

	_, err := ReadRows(path, slog.Default())
	req.Error(err)
}

func TestReadRows_MissingColumns(t *testing.T) {
	req := require.New(t)
	path := writeTempFile(t, "columns.csv", "id,text\n1,hello\n")

	_, err := ReadRows(path, slog.Default())
	req.ErrorIs(err, errors.ErrMissingColumns)
}

func TestReadRows_RejectsBinaryFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "binary.csv")
	// PNG magic bytes: definitely not a text file
	req.NoError(os.WriteFile(path, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, 0o644))

	_, err := ReadRows(path, slog.Default())
	req.ErrorIs(err, errors.ErrNotTextFile)
}

func TestReadRows_HeaderOnly(t *testing.T) {
	req := require.New(t)
	path := writeTempFile(t, "header.csv", "user_id,message\n")

	rows, err := ReadRows(path, slog.Default())

	req.NoError(err)
	req.Empty(rows)
}
