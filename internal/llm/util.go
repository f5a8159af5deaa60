package llm

import "strings"

// CleanJSONBlock strips a markdown code fence around a JSON reply. Models
// add one now and then even in JSON mode.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if nl := strings.Index(text, "\n"); nl >= 0 {
		// language tag such as "json"
		if tag := strings.TrimSpace(text[:nl]); !strings.ContainsAny(tag, " {[") && len(tag) < 20 {
			text = text[nl+1:]
		}
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// ExtractJSONObject returns the outermost {...} span of text, or text
// unchanged when it has none. It recovers JSON from replies that wrap it in
// prose.
func ExtractJSONObject(text string) string {
	text = CleanJSONBlock(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}
