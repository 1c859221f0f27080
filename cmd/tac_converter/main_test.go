package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	metarEFHK = "METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG="
	tafBroken = "TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TAC_LOG_LEVEL", "error")
	t.Setenv("TAC_ARCHIVE_PATH", filepath.Join(t.TempDir(), "archive.db"))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, metarEFHK, "parse")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "METAR", got["family"])
	assert.Equal(t, "SUCCESS", got["status"])
	assert.NotNil(t, got["message"])
}

func TestParseCommandLines(t *testing.T) {
	out, err := execute(t, metarEFHK+"\n\n"+tafBroken+"\n", "parse", "--lines")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"status":"SUCCESS"`)
	assert.Contains(t, lines[1], `"status":"FAIL"`)
}

func TestParseCommandFail(t *testing.T) {
	_, err := execute(t, metarEFHK+"\n"+tafBroken+"\n", "parse", "--lines", "--fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 messages failed")
}

func TestParseCommandInvalidMode(t *testing.T) {
	_, err := execute(t, metarEFHK, "--mode", "sloppy", "parse")
	require.Error(t, err)
}

func TestLexCommand(t *testing.T) {
	out, err := execute(t, "METAR EFHK 051052Z blaablaa 9999=", "lex")
	require.NoError(t, err)
	assert.Contains(t, out, "AERODROME_DESIGNATOR")
	assert.Contains(t, out, "UNRECOGNIZED")
}

func TestLexCommandTrace(t *testing.T) {
	out, err := execute(t, "TAF EFHK 010825Z 0109/0209 25015KT CAVOK=", "lex", "--trace", "--json")
	require.NoError(t, err)

	var tokens []struct {
		Text       string   `json:"text"`
		Kind       string   `json:"kind"`
		Candidates []string `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tokens))
	require.NotEmpty(t, tokens)

	byText := make(map[string][]string)
	for _, tok := range tokens {
		byText[tok.Text] = tok.Candidates
	}
	// The same pattern shape serves the validity and the change time group.
	assert.Contains(t, byText["0109/0209"], "valid_time")
	assert.Contains(t, byText["0109/0209"], "change_time_group")
	assert.Contains(t, byText["EFHK"], "aerodrome")

	out, err = execute(t, "TAF EFHK 010825Z 0109/0209 25015KT CAVOK=", "lex", "--trace")
	require.NoError(t, err)
	assert.Contains(t, out, "CANDIDATES")
}

func TestReadMessages(t *testing.T) {
	got, err := readMessages(strings.NewReader("  A\n\nB  \n"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)

	got, err = readMessages(strings.NewReader("  A\nB \n"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"A\nB"}, got)

	got, err = readMessages(strings.NewReader("   "), false)
	require.NoError(t, err)
	assert.Empty(t, got)
}
