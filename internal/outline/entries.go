package outline

import (
	"fmt"
	"strings"

	"tocview/internal/domain"
)

// BuildEntries turns headings into outline entries in document order,
// assigning ids to nodes that lack one. Ids already present win over derived
// ones; a derived id that collides, or is empty, falls back to heading-<index>.
// Only the id of a node is ever written.
func BuildEntries(nodes []Node) []Entry {
	taken := make(map[string]bool, len(nodes))
	owner := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if id := n.ID(); id != "" {
			if _, ok := owner[id]; !ok {
				owner[id] = i
				taken[id] = true
			}
		}
	}

	entries := make([]Entry, 0, len(nodes))
	for i, n := range nodes {
		id := n.ID()
		if id == "" || owner[id] != i {
			id = deriveID(n.Text(), i, taken)
			taken[id] = true
			n.SetID(id)
		}
		entries = append(entries, Entry{
			HeadingEntry: domain.HeadingEntry{
				ID:    id,
				Text:  strings.TrimSpace(n.Text()),
				Level: clampLevel(n.Level()),
			},
			Node: n,
		})
	}
	return entries
}

func deriveID(text string, index int, taken map[string]bool) string {
	if slug := Slugify(text); slug != "" && !taken[slug] {
		return slug
	}
	id := positionalID(index)
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("%s-%d", positionalID(index), n)
	}
	return id
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
