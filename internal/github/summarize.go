package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxSummarizedRepos caps how many repositories one request summarizes.
const MaxSummarizedRepos = 3

const maxBulletLen = 220

// dependency name fragment -> display label, checked in order
var frameworkLabels = []struct{ match, label string }{
	{"react", "React"},
	{"next", "Next.js"},
	{"vue", "Vue"},
	{"nuxt", "Nuxt"},
	{"svelte", "Svelte"},
	{"svelte-kit", "SvelteKit"},
	{"sveltekit", "SvelteKit"},
	{"angular", "Angular"},
	{"vite", "Vite"},
	{"express", "Express"},
	{"koa", "Koa"},
	{"fastify", "Fastify"},
	{"nest", "NestJS"},
	{"tailwind", "Tailwind CSS"},
	{"tailwindcss", "Tailwind CSS"},
	{"prisma", "Prisma"},
	{"drizzle", "Drizzle"},
	{"axios", "Axios"},
	{"react-router", "React Router"},
	{"shadcn", "shadcn/ui"},
}

var readmeHints = []struct{ match, label string }{
	{"graphql", "GraphQL"},
	{"tensorflow", "TensorFlow"},
	{"pytorch", "PyTorch"},
	{"docker", "Docker"},
	{"kubernetes", "Kubernetes"},
	{"github actions", "GitHub Actions"},
	{"eslint", "ESLint"},
	{"jest", "Jest"},
	{"playwright", "Playwright"},
	{"cypress", "Cypress"},
}

var (
	sentenceRe   = regexp.MustCompile(`^(.+?[.!?])(\s|$)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

type packageJSON struct {
	Dependencies    objectKeys `json:"dependencies"`
	DevDependencies objectKeys `json:"devDependencies"`
}

// objectKeys holds the keys of a JSON object in document order.
type objectKeys []string

func (k *objectKeys) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*k = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	keys := objectKeys{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
		keys = append(keys, key)
	}
	*k = keys
	return nil
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// repoFacts is everything fetched about one repository.
type repoFacts struct {
	owner, name string
	repo        *apiRepo
	readme      string
	languages   map[string]int
	pkg         *packageJSON
}

// SummarizeRepos returns three resume bullets per repository, keyed by
// full name. Only the first MaxSummarizedRepos entries are used and
// entries that are not owner/name are skipped.
func (c *Client) SummarizeRepos(ctx context.Context, fullNames []string) (map[string][]string, error) {
	if len(fullNames) == 0 {
		return nil, ErrNoRepos
	}
	if len(fullNames) > MaxSummarizedRepos {
		fullNames = fullNames[:MaxSummarizedRepos]
	}

	out := make(map[string][]string, len(fullNames))
	for _, full := range fullNames {
		owner, name, ok := strings.Cut(full, "/")
		if !ok || owner == "" || name == "" {
			continue
		}
		facts, err := c.fetchRepoFacts(ctx, owner, name)
		if err != nil {
			return nil, err
		}
		out[full] = facts.bullets()
	}
	return out, nil
}

// fetchRepoFacts loads repo metadata, README, languages and package.json
// concurrently. Individual lookups that fail leave their field empty;
// only context cancellation is reported.
func (c *Client) fetchRepoFacts(ctx context.Context, owner, name string) (*repoFacts, error) {
	base := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
	facts := &repoFacts{owner: owner, name: name}

	var g errgroup.Group
	g.Go(func() error {
		var r apiRepo
		if err := c.getJSON(ctx, base, &r); err == nil {
			facts.repo = &r
		}
		return nil
	})
	g.Go(func() error {
		if text, ok := c.fileContents(ctx, base+"/readme"); ok {
			facts.readme = text
		}
		return nil
	})
	g.Go(func() error {
		langs := map[string]int{}
		if err := c.getJSON(ctx, base+"/languages", &langs); err == nil {
			facts.languages = langs
		}
		return nil
	})
	g.Go(func() error {
		if text, ok := c.fileContents(ctx, base+"/contents/package.json"); ok {
			var pkg packageJSON
			if json.Unmarshal([]byte(text), &pkg) == nil {
				facts.pkg = &pkg
			}
		}
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to summarize %s/%s: %w", owner, name, err)
	}
	return facts, nil
}

// fileContents fetches a contents-API document and decodes its base64 body.
func (c *Client) fileContents(ctx context.Context, path string) (string, bool) {
	var resp contentsResponse
	if err := c.getJSON(ctx, path, &resp); err != nil || resp.Content == "" {
		return "", false
	}
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(resp.Content)
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

func (f *repoFacts) bullets() []string {
	purpose := FirstSentence(f.readme)
	if purpose == "" && f.repo != nil && f.repo.Description != nil {
		purpose = strings.TrimSpace(*f.repo.Description)
	}
	if purpose == "" {
		purpose = fmt.Sprintf("A %s project by %s", f.name, f.owner)
	}

	tech := strings.Join(DetectTech(f.languages, f.dependencyNames(), f.readme), ", ")
	if tech == "" {
		tech = "N/A"
	}

	var stars, forks int
	var updated string
	if f.repo != nil {
		stars, forks = f.repo.StargazersCount, f.repo.ForksCount
		if t, err := time.Parse(time.RFC3339, f.repo.PushedAt); err == nil {
			updated = t.Format("Jan 2006")
		}
	}
	notable := fmt.Sprintf("Notable: %d★, %d forks", stars, forks)
	if updated != "" {
		notable += ", updated " + updated
	}

	return []string{
		truncateBullet("Purpose: " + purpose),
		truncateBullet("Tech: " + tech),
		truncateBullet(notable),
	}
}

// dependencyNames lists dependencies then devDependencies in declared order.
func (f *repoFacts) dependencyNames() []string {
	if f.pkg == nil {
		return nil
	}
	names := make([]string, 0, len(f.pkg.Dependencies)+len(f.pkg.DevDependencies))
	seen := make(map[string]bool, cap(names))
	for _, group := range []objectKeys{f.pkg.Dependencies, f.pkg.DevDependencies} {
		for _, name := range group {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// FirstSentence returns the first sentence of a README, skipping headings
// and HTML lines, capped at 220 characters.
func FirstSentence(text string) string {
	var kept []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "<") || strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	cleaned := strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.Join(kept, " "), " "))

	if m := sentenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}
	return truncateRunes(cleaned, maxBulletLen)
}

// DetectTech lists the top three languages by bytes, then framework
// labels found in dependency names, then README keyword hints. The result
// is de-duplicated and capped at six entries.
func DetectTech(languages map[string]int, deps []string, readme string) []string {
	langs := make([]string, 0, len(languages))
	for l := range languages {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if languages[langs[i]] != languages[langs[j]] {
			return languages[langs[i]] > languages[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) > 3 {
		langs = langs[:3]
	}

	var tech []string
	seen := make(map[string]bool)
	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			tech = append(tech, label)
		}
	}

	for _, l := range langs {
		add(l)
	}
	for _, dep := range deps {
		low := strings.ToLower(dep)
		for _, fw := range frameworkLabels {
			if strings.Contains(low, fw.match) {
				add(fw.label)
			}
		}
	}
	lowReadme := strings.ToLower(readme)
	for _, h := range readmeHints {
		if strings.Contains(lowReadme, h.match) {
			add(h.label)
		}
	}

	if len(tech) > 6 {
		tech = tech[:6]
	}
	return tech
}

func truncateBullet(b string) string {
	if len([]rune(b)) > maxBulletLen {
		return string([]rune(b)[:maxBulletLen-3]) + "..."
	}
	return b
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
