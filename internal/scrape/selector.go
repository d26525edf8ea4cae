package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// compound is one step of a descendant selector: an optional tag, any number
// of classes and an optional required attribute, e.g. "span.tag.release_date"
// or ".user_score_chart[data-percent]".
type compound struct {
	tag     string
	classes []string
	attr    string
}

// selector is a chain of compounds joined by the descendant combinator.
type selector []compound

func mustSelector(s string) selector {
	var sel selector
	for _, part := range strings.Fields(s) {
		sel = append(sel, parseCompound(part))
	}
	if len(sel) == 0 {
		panic("scrape: empty selector")
	}
	return sel
}

func parseCompound(s string) compound {
	var c compound
	if i := strings.IndexByte(s, '['); i >= 0 {
		c.attr = strings.TrimSuffix(s[i+1:], "]")
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	c.tag = parts[0]
	for _, cls := range parts[1:] {
		if cls != "" {
			c.classes = append(c.classes, cls)
		}
	}
	return c
}

func (c compound) match(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && n.Data != c.tag {
		return false
	}
	if c.attr != "" {
		if _, ok := attrValue(n, c.attr); !ok {
			return false
		}
	}
	if len(c.classes) == 0 {
		return true
	}
	have, _ := attrValue(n, "class")
	fields := strings.Fields(have)
	for _, want := range c.classes {
		found := false
		for _, f := range fields {
			if f == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matches reports whether n matches the selector, looking for the earlier
// compounds among n's ancestors no higher than scope.
func (s selector) matches(n, scope *html.Node) bool {
	if !s[len(s)-1].match(n) {
		return false
	}
	i := len(s) - 2
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if p == scope.Parent {
			break
		}
		if s[i].match(p) {
			i--
		}
	}
	return i < 0
}

// all returns every descendant of root matching s, in document order.
func (s selector) all(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if s.matches(c, root) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// first returns the first descendant of root matching s, or nil.
func (s selector) first(root *html.Node) *html.Node {
	if nodes := s.all(root); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func attrValue(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// textOf returns the visible text under n with whitespace collapsed.
func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
