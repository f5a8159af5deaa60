package fetch

import (
	"net/url"
	"strings"
)

// Board is a job board with known page structure.
type Board struct {
	Name    string
	hosts   []string
	content []string
	noise   []string
}

// genericContent is tried on pages from unknown boards.
var genericContent = []string{
	".job-description",
	"#job-description",
	".job-details",
	".posting-content",
	"[data-testid='job-description']",
	"main",
	"article",
	"#content",
	".content",
}

// commonNoise removes application forms and legal boilerplate.
var commonNoise = []string{
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".voluntary-disclosure",
	".social-share",
}

var boards = []Board{
	{
		Name:    "greenhouse",
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section"},
	},
	{
		Name:    "lever",
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".posting-description", ".content"},
		noise:   []string{".posting-apply", ".apply-section"},
	},
	{
		Name:    "workday",
		hosts:   []string{"myworkdayjobs.com", "workday.com"},
		content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"},
		noise:   []string{"[data-automation-id='applyButton']"},
	},
	{
		Name:    "ashby",
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='descriptionText']", "main"},
		noise:   []string{"[class*='applicationForm']"},
	},
}

// BoardFor identifies the job board hosting rawURL. Unknown hosts get a
// board named "generic".
func BoardFor(rawURL string) Board {
	u, err := url.Parse(rawURL)
	if err == nil {
		host := strings.ToLower(u.Hostname())
		for _, b := range boards {
			for _, h := range b.hosts {
				if host == h || strings.HasSuffix(host, "."+h) {
					return b
				}
			}
		}
	}
	return Board{Name: "generic"}
}

// ContentSelectors returns the board's selectors followed by the generic ones.
func (b Board) ContentSelectors() []string {
	return append(append([]string{}, b.content...), genericContent...)
}

// NoiseSelectors returns the board's noise selectors plus the common ones.
func (b Board) NoiseSelectors() []string {
	return append(append([]string{}, commonNoise...), b.noise...)
}
