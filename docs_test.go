package lox

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocsQuick(t *testing.T) {
	j := Docs().JSON()
	require.Contains(t, j, Version)
	require.Contains(t, j, "topics")
}

func TestDocsAll(t *testing.T) {
	var decoded map[string]any
	require.Nil(t, json.Unmarshal([]byte(Docs(DocsAll()).JSON()), &decoded))
	for _, key := range []string{"lox", "builtins", "syntax", "errors"} {
		require.Contains(t, decoded, key)
	}
}

func TestDocsCategories(t *testing.T) {
	require.Contains(t, Docs(DocsCategory("builtins")).JSON(), "functions")
	require.Contains(t, Docs(DocsCategory("syntax")).JSON(), "sections")
	require.Contains(t, Docs(DocsCategory("errors")).JSON(), "patterns")
	require.Contains(t, Docs(DocsCategory("nope")).JSON(), "unknown category")
}

func TestDocsTopic(t *testing.T) {
	j := Docs(DocsTopic("len")).JSON()
	require.True(t, strings.Contains(j, `"name": "len"`))
	require.Contains(t, Docs(DocsTopic("missing")).JSON(), "unknown topic")
}
