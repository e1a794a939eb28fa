package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestColumnsText(t *testing.T) {
	out, err := runCommand(t, "columns", "number,label,P31:instance of")
	require.NoError(t, err)

	assert.Contains(t, out, "number")
	assert.Contains(t, out, "p31")
	assert.Contains(t, out, "instance of")
}

func TestColumnsJSON(t *testing.T) {
	out, err := runCommand(t, "--format", "json", "columns", "item,P580/P582")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   []ColumnInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "item", resp.Data[0].Key)
	assert.Equal(t, "p580_p582", resp.Data[1].Key)
}

func TestInvalidFormatIsRejected(t *testing.T) {
	_, err := runCommand(t, "--format", "xml", "columns", "label")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestParseParamFlags(t *testing.T) {
	values, err := parseParamFlags([]string{
		"columns=number,label",
		"sparql=SELECT ?item WHERE { ?item wdt:P31 wd:Q5 }",
		"links=red",
	})
	require.NoError(t, err)

	assert.Equal(t, "number,label", values["columns"])
	assert.Equal(t, "SELECT ?item WHERE { ?item wdt:P31 wd:Q5 }", values["sparql"],
		"values keep embedded equals-free text intact")
	assert.Equal(t, "red", values["links"])
}

func TestParseParamFlagsRejectsBareKey(t *testing.T) {
	_, err := parseParamFlags([]string{"columns"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=value")
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "run failed", errors.New("no items")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestExitErrorUnwrap(t *testing.T) {
	cause := errors.New("no items to show")
	err := WrapExitError(ExitFailure, "run failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "run failed: no items to show", err.Error())
}

func TestOutputFormatterJSONError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Error("boom"))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "boom", resp.Error)
}
