package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// Match is one search hit. Icon is nil when the group name matched.
type Match struct {
	Group *Group
	Icon  *sticker.Icon
	Text  string
	Score int
}

type searchEntry struct {
	group *Group
	icon  *sticker.Icon
	text  string
}

type searchSource []searchEntry

func (s searchSource) String(i int) string { return strings.ToLower(s[i].text) }
func (s searchSource) Len() int            { return len(s) }

// Search fuzzy matches group names and the keywords of loaded icons,
// best match first.
func (c *Catalog) Search(query string) []Match {
	if query == "" {
		return nil
	}

	var source searchSource
	for _, g := range c.groups {
		source = append(source, searchEntry{group: g, text: g.Name})
		for _, icon := range g.Icons {
			if icon.Keyword != "" {
				source = append(source, searchEntry{group: g, icon: icon, text: icon.Keyword})
			}
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), source)
	matches := make([]Match, 0, len(results))
	for _, r := range results {
		e := source[r.Index]
		matches = append(matches, Match{Group: e.group, Icon: e.icon, Text: e.text, Score: r.Score})
	}
	return matches
}
