package ats

// aliases maps common single-token spellings of technologies to one
// canonical token so that "golang" on a resume matches "Go" in a posting.
var aliases = map[string]string{
	"golang":     "go",
	"k8s":        "kubernetes",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"reactjs":    "react",
	"vuejs":      "vue",
	"nodejs":     "node",
	"nextjs":     "next",
	"ecmascript": "javascript",
	"mongo":      "mongodb",
}

// Canonical returns the canonical spelling of a lower-case token.
func Canonical(token string) string {
	if c, ok := aliases[token]; ok {
		return c
	}
	return token
}

// canonicalize rewrites tokens in place.
func canonicalize(tokens []string) []string {
	for i, tok := range tokens {
		tokens[i] = Canonical(tok)
	}
	return tokens
}
