// Package observability provides formatted report output for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/gitfolio/internal/analysis"
	"github.com/jonathan/gitfolio/internal/ats"
	"github.com/jonathan/gitfolio/internal/github"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for CLI reports
type Printer struct {
	out   io.Writer
	box   lipgloss.Style
	title lipgloss.Style
	label lipgloss.Style
	good  lipgloss.Style
	bad   lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer. Colors
// are dropped when out is not a terminal.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out: out,
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1).
			Width(boxWidth),
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		good:  r.NewStyle().Foreground(lipgloss.Color("10")),
		bad:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	body := p.title.Render(title) + "\n\n" + strings.TrimRight(content, "\n")
	fmt.Fprintln(p.out, p.box.Render(body))
}

func (p *Printer) field(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s %s\n", p.label.Render(name+":"), value)
}

func (p *Printer) list(sb *strings.Builder, heading string, items []string, style lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s\n", p.label.Render(heading))
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", style.Render(truncate(item, boxWidth-8)))
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

// PrintScore outputs a keyword match score.
func (p *Printer) PrintScore(result *ats.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	p.field(&sb, "Score", fmt.Sprintf("%d / 100  %s", result.Score, scoreBar(result.Score, 20)))
	p.field(&sb, "Similarity", fmt.Sprintf("%.4f", result.Similarity))
	p.field(&sb, "Terms", fmt.Sprintf("resume %d, job %d", result.ResumeTerms, result.JobTerms))
	sb.WriteString("\n")
	p.list(&sb, "Matched keywords", result.MatchedKeywords, p.good)
	p.list(&sb, "Missing keywords", result.MissingKeywords, p.bad)

	p.printBox("ATS KEYWORD SCORE", sb.String())
}

// PrintReport outputs an AI ATS report.
func (p *Printer) PrintReport(report *analysis.ATSReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	score := int(report.OverallScore)
	p.field(&sb, "Overall", fmt.Sprintf("%d / 100  %s", score, scoreBar(score, 20)))
	p.field(&sb, "Readability", report.ATSCompatibility.ReadabilityScore)
	p.field(&sb, "File type", report.ATSCompatibility.FileType)
	sb.WriteString("\n")

	p.list(&sb, "Keywords matched", report.KeywordAnalysis.KeywordsMatched, p.good)
	p.list(&sb, "Keywords missing", report.KeywordAnalysis.KeywordsMissing, p.bad)

	if gaps := report.KeywordAnalysis.SkillGapAnalysis; len(gaps) > 0 {
		sb.WriteString(p.label.Render("Skill gaps") + "\n")
		for _, g := range gaps[:min(len(gaps), maxItemsToShow)] {
			fmt.Fprintf(&sb, "  %-24s %3d  %s\n", truncate(g.Skill, 24), int(g.Score), scoreBar(int(g.Score), 10))
		}
		sb.WriteString("\n")
	}

	p.field(&sb, "Experience", report.ExperienceQualificationMatch.ExperienceAlignment)
	p.field(&sb, "Education", report.ExperienceQualificationMatch.EducationAndCertifications)
	p.list(&sb, "Recommendations", report.DetailedSuggestions.OverallRecommendations, lipgloss.NewStyle())

	p.printBox("AI ATS REPORT", sb.String())
}

// PrintProfile outputs a GitHub profile and its most recent repositories.
func (p *Printer) PrintProfile(result *github.ProfileResult) {
	if result == nil {
		return
	}
	prof := result.Profile

	var sb strings.Builder
	p.field(&sb, "Login", prof.Login)
	p.field(&sb, "Name", prof.Name)
	p.field(&sb, "Bio", prof.Bio)
	p.field(&sb, "Location", prof.Location)
	p.field(&sb, "Repos", fmt.Sprintf("%d public, %d followers", prof.PublicRepos, prof.Followers))
	sb.WriteString("\n")

	repos := make([]string, 0, len(result.Repos))
	for _, r := range result.Repos {
		line := r.Name
		if r.Language != "" {
			line += " [" + r.Language + "]"
		}
		if r.StargazersCount > 0 {
			line += fmt.Sprintf(" ★%d", r.StargazersCount)
		}
		repos = append(repos, line)
	}
	p.list(&sb, "Recent repositories", repos, lipgloss.NewStyle())

	p.printBox("GITHUB PROFILE", sb.String())
}

// PrintSummaries outputs bullet summaries per repository, sorted by name.
func (p *Printer) PrintSummaries(summaries map[string][]string) {
	if len(summaries) == 0 {
		return
	}
	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		p.list(&sb, name, summaries[name], lipgloss.NewStyle())
	}
	p.printBox("REPOSITORY SUMMARIES", sb.String())
}

// PrintText outputs free text such as a cover letter.
func (p *Printer) PrintText(title, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	p.printBox(title, text)
}

// scoreBar draws score (0..100) as a bar of width cells.
func scoreBar(score, width int) string {
	score = max(0, min(score, 100))
	filled := score * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
