package utils

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header used when exporting a document to a
// single markdown file and when importing one back.
type Frontmatter struct {
	Title string   `yaml:"title"`
	Icon  string   `yaml:"icon,omitempty"`
	Tags  []string `yaml:"tags,omitempty"`
}

// RenderFrontmatter produces a markdown file: YAML frontmatter between
// `---` delimiters followed by the raw content.
func RenderFrontmatter(fm *Frontmatter, content string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	encoder.Close()
	buf.WriteString("---\n\n")
	buf.WriteString(content)

	return buf.Bytes(), nil
}

// ParseFrontmatter splits a markdown file into its YAML header and body.
// The file must start with a `---` line and contain a closing delimiter.
func ParseFrontmatter(data []byte) (*Frontmatter, string, error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return nil, "", errors.New("missing frontmatter: file must start with '---'")
	}

	lines := bytes.Split(data, []byte("\n"))
	closingDelim := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			closingDelim = i
			break
		}
	}
	if closingDelim == 0 {
		return nil, "", errors.New("missing closing frontmatter delimiter '---'")
	}

	var fm Frontmatter
	yamlContent := bytes.Join(lines[1:closingDelim], []byte("\n"))
	if err := yaml.Unmarshal(yamlContent, &fm); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	body := string(bytes.Join(lines[closingDelim+1:], []byte("\n")))
	body = string(bytes.TrimLeft([]byte(body), "\r\n"))
	return &fm, body, nil
}
