package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// simpleSelector matches one element: tag, #id and .class parts, all optional
type simpleSelector struct {
	tag     string
	id      string
	classes []string
}

// Selector is a descendant chain such as ".article .content"
type Selector []simpleSelector

// ParseSelector parses tag, .class, #id and tag.class#id parts separated by spaces
func ParseSelector(s string) (Selector, error) {
	var sel Selector
	for _, part := range strings.Fields(s) {
		simple, err := parseSimple(part)
		if err != nil {
			return nil, err
		}
		sel = append(sel, simple)
	}
	if len(sel) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	return sel, nil
}

func parseSimple(part string) (simpleSelector, error) {
	var s simpleSelector
	rest := part
	if i := strings.IndexAny(rest, ".#"); i != 0 {
		if i < 0 {
			i = len(rest)
		}
		s.tag = strings.ToLower(rest[:i])
		rest = rest[i:]
	}
	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, ".#")
		if end < 0 {
			end = len(rest)
		}
		name := rest[:end]
		rest = rest[end:]
		if name == "" {
			return s, fmt.Errorf("invalid selector %q", part)
		}
		switch kind {
		case '.':
			s.classes = append(s.classes, name)
		case '#':
			s.id = name
		}
	}
	return s, nil
}

func (s simpleSelector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" && attr(n, "id") != s.id {
		return false
	}
	if len(s.classes) > 0 {
		have := strings.Fields(attr(n, "class"))
		for _, want := range s.classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	return true
}

// Find returns the first element in document order matching the chain
func (sel Selector) Find(root *html.Node) *html.Node {
	if len(sel) == 0 {
		return nil
	}
	var found *html.Node
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		if sel[len(sel)-1].matches(n) && sel.ancestorsMatch(n.Parent, len(sel)-2) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if visit(c) {
				return true
			}
		}
		return false
	}
	visit(root)
	return found
}

// ancestorsMatch checks sel[:i+1] against the ancestors of n, nearest first
func (sel Selector) ancestorsMatch(n *html.Node, i int) bool {
	for ; i >= 0; i-- {
		for n != nil && !sel[i].matches(n) {
			n = n.Parent
		}
		if n == nil {
			return false
		}
		n = n.Parent
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
