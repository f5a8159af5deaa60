package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"golang", "go"},
		{"k8s", "kubernetes"},
		{"postgres", "postgresql"},
		{"reactjs", "react"},
		{"python", "python"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonical(tt.input))
		})
	}
}

func TestScore_AliasesMatch(t *testing.T) {
	res, err := Score("Golang services on k8s backed by Postgres", "Go Kubernetes PostgreSQL", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "kubernetes", "postgresql"}, res.MatchedKeywords)
	assert.Empty(t, res.MissingKeywords)
}

func TestKeywords_GroupsAliases(t *testing.T) {
	kws := Keywords("golang k8s go kubernetes go", 5)
	assert.Equal(t, []string{"golang", "k8s"}, kws)
}
