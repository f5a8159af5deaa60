package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MinJobTextLength is the shortest extracted text accepted without trying
// the browser fallback.
const MinJobTextLength = 500

// ErrNoContent is returned when no job text could be extracted.
var ErrNoContent = errors.New("no job description text found")

// JobDescription fetches a job posting and returns its description text.
// Pages whose extracted text is shorter than MinJobTextLength are
// re-rendered in the browser when a Renderer is configured.
func (f *Fetcher) JobDescription(ctx context.Context, rawURL string) (string, error) {
	board := BoardFor(rawURL)
	log := f.logger.With(zap.String("url", rawURL), zap.String("board", board.Name))

	page, err := f.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}

	text, err := ExtractText(page.HTML, board.ContentSelectors(), board.NoiseSelectors())
	if err != nil {
		return "", fmt.Errorf("failed to extract job text: %w", err)
	}
	log.Debug("fetched job page", zap.Int("html_bytes", len(page.HTML)), zap.Int("text_chars", len(text)))

	if f.renderer != nil && len(strings.TrimSpace(text)) < MinJobTextLength {
		log.Debug("job text too short, rendering in browser")
		var html string
		renderErr := f.checkHost(ctx, rawURL)
		if renderErr == nil {
			html, renderErr = f.renderer.Render(ctx, rawURL)
		}
		if renderErr != nil {
			log.Warn("browser rendering failed, keeping HTTP text", zap.Error(renderErr))
		} else if rendered, err := ExtractText(html, board.ContentSelectors(), board.NoiseSelectors()); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}
