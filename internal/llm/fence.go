package llm

import "strings"

// StripCodeFence removes a markdown code fence around a model reply: the opening
// ``` line (with an optional language tag such as json) and the closing ``` line.
// Text without a fence is returned trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		// single line: ```json {...}```
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
		return strings.TrimSpace(trimLangTag(s))
	}

	tag := strings.TrimSpace(s[3:nl])
	body := s[nl+1:]
	if strings.HasSuffix(strings.TrimSpace(body), "```") {
		body = strings.TrimSpace(body)
		body = strings.TrimSuffix(body, "```")
	}
	body = strings.TrimSpace(body)
	if tag == "" {
		// tag may have been put on its own line
		body = trimLangTag(body)
	}
	return strings.TrimSpace(body)
}

func trimLangTag(s string) string {
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		return s[4:]
	}
	return s
}
