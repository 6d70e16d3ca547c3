package ingest

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

var (
	quoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`, // curly double quotes
		"‘", "'", "’", "'", // curly single quotes
	)
	spaceRun = regexp.MustCompile(`[\s\x{2014}]+`)
)

// Sanitize prepares raw text for tokenization:
// curly quotes become straight quotes, runs of whitespace and em-dashes
// collapse to a single space, and a hyphen followed by a space is removed
// (words split at the end of a line).
func Sanitize(text string) string {
	text = quoteReplacer.Replace(text)
	text = spaceRun.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "- ", "")

	return text
}

// SplitSentences splits sanitized text into sentences. A sentence ends at a
// run of '.', '!' or '?' (plus any closing quotes or brackets) followed by
// whitespace and an upper-case letter, a digit or an opening quote.
// Terminal punctuation stays with its sentence.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string

	start, i := 0, 0
	for i < len(runes) {
		if !isTerminator(runes[i]) {
			i++
			continue
		}

		j := i + 1
		for j < len(runes) && isTerminator(runes[j]) {
			j++
		}
		for j < len(runes) && isCloser(runes[j]) {
			j++
		}

		k := j
		for k < len(runes) && unicode.IsSpace(runes[k]) {
			k++
		}

		if k > j && k < len(runes) && !opensSentence(runes[k]) {
			// likely an abbreviation or a stray dot, keep scanning
			i = j
			continue
		}

		if sent := strings.TrimSpace(string(runes[start:j])); sent != "" {
			sentences = append(sentences, sent)
		}
		start, i = k, k
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == ']'
}

func opensSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '\'' || r == '('
}

// StripHTML extracts the text content of an HTML document.
// If parsing fails the input is returned as-is.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
