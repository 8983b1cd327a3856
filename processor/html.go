// Package processor translates the text content of markup documents through
// a translation resolver, keeping the markup itself untouched.
package processor

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/lingofyra/transcache"
	"golang.org/x/net/html"
)

// DefaultIgnoredTags are elements whose content is never translated.
var DefaultIgnoredTags = []string{"script", "style", "code", "pre", "textarea", "noscript"}

const contentType = "html"

// NoTranslateAttr marks an element whose subtree is left as is.
const NoTranslateAttr = "data-no-translate"

// Resolver resolves a batch of texts sharing one language pair.
// *transcache.Coordinator satisfies it.
type Resolver interface {
	ResolveTexts(ctx context.Context, texts []string, sourceLang, targetLang string) []string
}

// TextNode is one distinct translatable text found in a document.
type TextNode struct {
	ID        string
	Text      string // trimmed text
	ParentTag string
	Count     int // occurrences in the document
}

// Document is a parsed HTML document ready for Apply.
type Document struct {
	doc *goquery.Document
}

// Result describes a translated document.
type Result struct {
	Content       string
	SourceLang    string
	TargetLang    string
	TotalNodes    int // text nodes, counting repeats
	DistinctTexts int
	Translated    int // distinct texts whose translation differs from the source
}

// HTMLProcessor extracts and applies translations to HTML content.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return NewHTMLProcessorWithIgnoredTags(DefaultIgnoredTags)
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// Extract parses HTML and returns its distinct translatable texts in
// document order.
func (p *HTMLProcessor) Extract(content string) (*Document, []TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &transcache.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: contentType,
		}
	}

	var nodes []TextNode
	index := make(map[string]int)

	p.eachText(doc, func(n *html.Node, trimmed string) {
		if i, ok := index[trimmed]; ok {
			nodes[i].Count++
			return
		}
		node := TextNode{
			ID:    fmt.Sprintf("node-%d", len(nodes)),
			Text:  trimmed,
			Count: 1,
		}
		if n.Parent != nil {
			node.ParentTag = n.Parent.Data
		}
		index[trimmed] = len(nodes)
		nodes = append(nodes, node)
	})

	return &Document{doc: doc}, nodes, nil
}

// Apply replaces every text node that has an entry in translations (keyed
// by trimmed source text), keeping its surrounding whitespace, and returns
// the serialized document.
func (p *HTMLProcessor) Apply(d *Document, translations map[string]string) (string, error) {
	if d == nil || d.doc == nil {
		return "", &transcache.ProcessorError{
			Message:     "document not parsed",
			ContentType: contentType,
		}
	}

	p.eachText(d.doc, func(n *html.Node, trimmed string) {
		if translated, ok := translations[trimmed]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	})

	out, err := d.doc.Html()
	if err != nil {
		return "", &transcache.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: contentType,
		}
	}
	return out, nil
}

// Translate translates the document from sourceLang into targetLang with a
// single batch call and marks the <html> element with the target language
// and direction. Texts the resolver could not translate stay as they were.
func (p *HTMLProcessor) Translate(ctx context.Context, r Resolver, content, sourceLang, targetLang string) (*Result, error) {
	target, err := transcache.CanonicalLang(targetLang)
	if err != nil {
		return nil, &transcache.ProcessorError{
			Message:     "invalid target language",
			Cause:       err,
			ContentType: contentType,
		}
	}
	if _, err := transcache.CanonicalLang(sourceLang); err != nil {
		return nil, &transcache.ProcessorError{
			Message:     "invalid source language",
			Cause:       err,
			ContentType: contentType,
		}
	}

	doc, nodes, err := p.Extract(content)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(nodes))
	total := 0
	for i, n := range nodes {
		texts[i] = n.Text
		total += n.Count
	}

	resolved := r.ResolveTexts(ctx, texts, sourceLang, targetLang)

	translations := make(map[string]string, len(nodes))
	translated := 0
	for i, text := range texts {
		translations[text] = resolved[i]
		if resolved[i] != text {
			translated++
		}
	}

	doc.doc.Find("html").
		SetAttr("lang", target).
		SetAttr("dir", transcache.GetDirection(target))

	out, err := p.Apply(doc, translations)
	if err != nil {
		return nil, err
	}

	return &Result{
		Content:       out,
		SourceLang:    sourceLang,
		TargetLang:    target,
		TotalNodes:    total,
		DistinctTexts: len(nodes),
		Translated:    translated,
	}, nil
}

// eachText calls fn for every non-blank text node outside ignored subtrees.
func (p *HTMLProcessor) eachText(doc *goquery.Document, fn func(n *html.Node, trimmed string)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && p.skip(n) {
			return
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				fn(n, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}
}

func (p *HTMLProcessor) skip(n *html.Node) bool {
	if p.ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == NoTranslateAttr {
			return true
		}
	}
	return false
}

// preserveWhitespace preserves the original leading/trailing whitespace,
// using the same notion of space as strings.TrimSpace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeftFunc(original, unicode.IsSpace))
	trailingLen := len(original) - len(strings.TrimRightFunc(original, unicode.IsSpace))
	if leadingLen == len(original) {
		return original
	}
	return original[:leadingLen] + translated + original[len(original)-trailingLen:]
}
