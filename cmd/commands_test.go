// file: cmd/commands_test.go
// version: 2.0.0
// guid: 6f5b7d78-11d8-4c1a-a150-96d2c4a1a885

package cmd

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/bookmeta/internal/batch"
	"github.com/jdfalk/bookmeta/internal/metadata"
	"github.com/jdfalk/bookmeta/internal/testutil"
)

func TestIdentifyCommand(t *testing.T) {
	base := newLookupService(t)

	out, _, err := runCLI(t, "", "identify",
		"--base-url", base,
		"--isbn", testutil.KnownISBN,
		"--title", "Καπετάν Μιχάλης")
	require.NoError(t, err)

	var recs []metadata.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Ο Καπετάν Μιχάλης", recs[0].Title)
	assert.Equal(t, "123", recs[0].Identifier(metadata.SchemeBiblionet))
	assert.Equal(t, []string{"Fiction", "Novel", "DDC:813"}, recs[0].Tags)
	require.NotNil(t, recs[0].PubDate)
	assert.Equal(t, 1953, recs[0].PubDate.Year())
}

func TestIdentifyCommandNoMatch(t *testing.T) {
	base := newLookupService(t)
	_, _, err := runCLI(t, "", "identify", "--base-url", base, "--isbn", "1111111111")
	assert.ErrorIs(t, err, errNoMatch)
}

func TestIdentifyCommandRequiresISBN(t *testing.T) {
	_, _, err := runCLI(t, "", "identify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to look up")

	_, _, err = runCLI(t, "", "identify", "--biblionet", "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--isbn is required")
}

func TestCoverCommandWritesFile(t *testing.T) {
	base := newLookupService(t)
	path := filepath.Join(t.TempDir(), "cover.jpg")

	_, stderr, err := runCLI(t, "", "cover",
		"--base-url", base,
		"--isbn", testutil.KnownISBN,
		"-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.JPEGMagic, data)
	assert.Contains(t, stderr, "image/jpeg")
}

func TestCoverCommandToStdout(t *testing.T) {
	base := newLookupService(t)
	out, _, err := runCLI(t, "", "cover", "--base-url", base, "--isbn", testutil.KnownISBN)
	require.NoError(t, err)
	assert.Equal(t, string(testutil.JPEGMagic), out)
}

func TestCoverCommandNotFound(t *testing.T) {
	base := newLookupService(t)
	_, _, err := runCLI(t, "", "cover", "--base-url", base, "--isbn", "2222222222")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cover found")
}

func TestBatchCommand(t *testing.T) {
	base := newLookupService(t)
	list := filepath.Join(t.TempDir(), "isbns.txt")
	require.NoError(t, os.WriteFile(list, []byte("# shelf\n9789600000001\n3333333333\n"), 0o644))

	out, stderr, err := runCLI(t, "", "batch", list, "--quiet", "--workers", "2",
		"--base-url", base)
	require.NoError(t, err)

	results := map[string]batch.Result{}
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var r batch.Result
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		results[r.ISBN] = r
	}
	require.Len(t, results, 2)
	assert.Equal(t, "Ο Καπετάν Μιχάλης", results[testutil.KnownISBN].Records[0].Title)
	assert.Equal(t, batch.ErrNoMatch, results["3333333333"].Error)
	assert.Contains(t, stderr, "Identified 1 of 2 isbn(s)")
}

func TestBatchCommandReadsStdin(t *testing.T) {
	base := newLookupService(t)
	out, _, err := runCLI(t, "9789600000001\n", "batch", "--quiet", "--base-url", base)
	require.NoError(t, err)
	assert.Contains(t, out, `"isbn":"`+testutil.KnownISBN+`"`)

	_, _, err = runCLI(t, "\n# nothing\n", "batch", "--quiet", "--base-url", base)
	require.Error(t, err)
}

func TestDiagnosticsWithIndex(t *testing.T) {
	base := newLookupService(t)
	index := filepath.Join(t.TempDir(), "index")

	_, _, err := runCLI(t, "", "identify", "--index", index,
		"--base-url", base, "--isbn", testutil.KnownISBN)
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "diagnostics", "query", "--index", index)
	require.NoError(t, err)
	assert.Contains(t, out, "1 isbn mapping(s), 1 cover url(s)")
	assert.Contains(t, out, "ISBN: 9789600000001")
	assert.Contains(t, out, "Biblionet ID: 123")

	out, _, err = runCLI(t, "no\n", "diagnostics", "forget", testutil.KnownISBN, "--index", index)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")

	out, _, err = runCLI(t, "", "diagnostics", "forget", testutil.KnownISBN, "0000", "--yes", "--index", index)
	require.NoError(t, err)
	assert.Contains(t, out, "Not indexed: 0000")
	assert.Contains(t, out, "Removed 1 isbn mapping(s).")

	out, _, err = runCLI(t, "", "diagnostics", "query", "--index", index)
	require.NoError(t, err)
	assert.Contains(t, out, "No isbn mappings found.")
}

func TestDiagnosticsRequiresIndex(t *testing.T) {
	_, _, err := runCLI(t, "", "diagnostics", "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index configured")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "ab...", truncateString("abcdef", 2))
}
