package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	separator     = "---\n"
	closingMarker = "\n---\n"
	closingAtEOF  = "\n---"
)

// SplitFrontmatter separates a leading YAML block from the body. Documents
// without a block return an empty map and the content unchanged.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, separator) {
		return map[string]any{}, content, nil
	}
	rest := strings.TrimPrefix(normalized, separator)
	raw, body, ok := strings.Cut(rest, closingMarker)
	if !ok {
		if !strings.HasSuffix(rest, closingAtEOF) {
			return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
		}
		raw, body = strings.TrimSuffix(rest, closingAtEOF), ""
	}

	decoded := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return decoded, body, nil
}

func RenderFrontmatter(meta map[string]any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if body != "" && !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
