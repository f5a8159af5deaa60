package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := New(AllowPrivateHosts())

	page, err := f.Get(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.HTML, "hello")

	page, err = f.Get(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	require.NotNil(t, page)
	assert.Equal(t, http.StatusNotFound, page.StatusCode)

	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Message, "404")
}

func TestGet_InvalidURL(t *testing.T) {
	f := New()
	for _, u := range []string{"", "not a url", "ftp://example.com/job", "/relative/path"} {
		_, err := f.Get(context.Background(), u)
		var fe *Error
		assert.True(t, errors.As(err, &fe), "url %q", u)
	}
}

func TestExtractText_PrefersContentSelector(t *testing.T) {
	html := `<html><head><script>var x=1;</script><style>p{}</style></head><body>
<nav>Home | Jobs</nav>
<div class="job-description"><h2>About the role</h2><p>Build  distributed
systems in Go.</p><ul><li>Kubernetes</li><li>PostgreSQL</li></ul></div>
<footer>Copyright</footer>
</body></html>`

	text, err := ExtractText(html, genericContent, commonNoise)
	require.NoError(t, err)

	assert.Contains(t, text, "About the role")
	assert.Contains(t, text, "Build distributed")
	assert.Contains(t, text, "Kubernetes\nPostgreSQL")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "var x")
}

func TestExtractText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Just a paragraph</p><div class="eeo-statement">Equal opportunity</div></body></html>`

	text, err := ExtractText(html, []string{".does-not-exist"}, commonNoise)
	require.NoError(t, err)
	assert.Equal(t, "Just a paragraph", text)
}

func TestBoardFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", "greenhouse"},
		{"https://job-boards.greenhouse.io/acme/jobs/123", "greenhouse"},
		{"https://jobs.lever.co/acme/abc-def", "lever"},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123", "workday"},
		{"https://jobs.ashbyhq.com/acme/123", "ashby"},
		{"https://careers.example.com/job/1", "generic"},
		{"https://notgreenhouse.io/job", "generic"},
		{"::bad", "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, BoardFor(tt.url).Name)
		})
	}
}

func TestBoardSelectors(t *testing.T) {
	b := BoardFor("https://jobs.lever.co/acme/1")
	content := b.ContentSelectors()
	assert.Equal(t, ".posting-page", content[0])
	assert.Contains(t, content, "main")

	noise := b.NoiseSelectors()
	assert.Contains(t, noise, ".posting-apply")
	assert.Contains(t, noise, ".eeo-statement")

	// generic boards only get the shared selectors
	g := BoardFor("https://example.com")
	assert.Equal(t, genericContent, g.ContentSelectors())
}

type stubRenderer struct {
	html  string
	err   error
	calls int
}

func (s *stubRenderer) Render(context.Context, string) (string, error) {
	s.calls++
	return s.html, s.err
}

func TestJobDescription(t *testing.T) {
	long := strings.Repeat("Experience with Go and PostgreSQL is required. ", 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/long":
			_, _ = w.Write([]byte(`<html><body><main><p>` + long + `</p></main></body></html>`))
		case "/short":
			_, _ = w.Write([]byte(`<html><body><div id="root">Loading...</div></body></html>`))
		case "/empty":
			_, _ = w.Write([]byte(`<html><body><script>app()</script></body></html>`))
		}
	}))
	defer srv.Close()

	t.Run("static page skips renderer", func(t *testing.T) {
		r := &stubRenderer{}
		text, err := New(WithRenderer(r), AllowPrivateHosts()).JobDescription(context.Background(), srv.URL+"/long")
		require.NoError(t, err)
		assert.Contains(t, text, "PostgreSQL")
		assert.Equal(t, 0, r.calls)
	})

	t.Run("short page uses rendered html", func(t *testing.T) {
		r := &stubRenderer{html: `<html><body><main><p>` + long + `</p></main></body></html>`}
		text, err := New(WithRenderer(r), AllowPrivateHosts()).JobDescription(context.Background(), srv.URL+"/short")
		require.NoError(t, err)
		assert.Equal(t, 1, r.calls)
		assert.Contains(t, text, "Experience with Go")
	})

	t.Run("renderer failure keeps http text", func(t *testing.T) {
		r := &stubRenderer{err: errors.New("no chrome")}
		text, err := New(WithRenderer(r), AllowPrivateHosts()).JobDescription(context.Background(), srv.URL+"/short")
		require.NoError(t, err)
		assert.Equal(t, "Loading...", text)
	})

	t.Run("no text", func(t *testing.T) {
		_, err := New(AllowPrivateHosts()).JobDescription(context.Background(), srv.URL+"/empty")
		assert.ErrorIs(t, err, ErrNoContent)
	})
}
