package document

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header some blog posts start with
type FrontMatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
	TOC   *bool    `yaml:"toc"` // false disables the outline for the post
}

var fence = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// body. Sources without one are returned unchanged with a zero FrontMatter.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter

	rest, ok := cutLine(src, fence)
	if !ok {
		return fm, src, nil
	}

	end := -1
	for off := 0; off < len(rest); {
		line := rest[off:]
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if bytes.Equal(bytes.TrimRight(line, "\r"), fence) {
			end = off
			break
		}
		off += len(line) + 1
	}
	if end < 0 {
		return fm, src, nil
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, src, fmt.Errorf("front matter: %w", err)
	}

	body := rest[end+len(fence):]
	body = bytes.TrimLeft(body, "\r\n")
	return fm, body, nil
}

// cutLine strips a first line equal to want
func cutLine(src, want []byte) ([]byte, bool) {
	i := bytes.IndexByte(src, '\n')
	if i < 0 {
		return nil, false
	}
	if !bytes.Equal(bytes.TrimRight(src[:i], "\r"), want) {
		return nil, false
	}
	return src[i+1:], true
}
