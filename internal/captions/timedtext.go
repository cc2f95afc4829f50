package captions

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

var formattingTags = []string{"strong", "em", "b", "i", "mark", "small", "del", "ins", "sub", "sup"}

var (
	allTagsRe    = regexp.MustCompile(`<[^>]*>`)
	keepFormatRe = regexp.MustCompile(`(?i)^</?(?:` + strings.Join(formattingTags, "|") + `)\b[^>]*>$`)
)

// transcriptXML is the legacy timedtext layout: <transcript><text start dur>
type transcriptXML struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",innerxml"`
	} `xml:"text"`
}

// srv3XML is the format 3 layout: <timedtext><body><p t d>
type srv3XML struct {
	Body struct {
		Paragraphs []struct {
			Time     string `xml:"t,attr"`
			Duration string `xml:"d,attr"`
			Content  string `xml:",innerxml"`
		} `xml:"p"`
	} `xml:"body"`
}

// ParseTimedText decodes a timedtext document into segments. Both the
// <transcript> (seconds) and <timedtext> (milliseconds) layouts are accepted.
// Missing timing attributes decode to zero.
func ParseTimedText(data []byte, preserveFormatting bool) ([]models.Segment, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}

	switch root {
	case "transcript":
		var doc transcriptXML
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode transcript xml: %w", err)
		}
		segments := make([]models.Segment, 0, len(doc.Texts))
		for _, t := range doc.Texts {
			segments = append(segments, models.Segment{
				Text:     cleanText(t.Body, preserveFormatting),
				Start:    parseFloat(t.Start),
				Duration: parseFloat(t.Dur),
			})
		}
		return segments, nil
	case "timedtext":
		var doc srv3XML
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode timedtext xml: %w", err)
		}
		segments := make([]models.Segment, 0, len(doc.Body.Paragraphs))
		for _, p := range doc.Body.Paragraphs {
			segments = append(segments, models.Segment{
				Text:     cleanText(p.Content, preserveFormatting),
				Start:    parseFloat(p.Time) / 1000,
				Duration: parseFloat(p.Duration) / 1000,
			})
		}
		return segments, nil
	default:
		return nil, fmt.Errorf("unsupported timedtext root element %q", root)
	}
}

func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("decode timedtext: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}

// cleanText turns the raw inner XML of a caption element into plain text.
// The legacy format escapes markup and entities a second time, so unescaping
// happens on both sides of tag stripping.
func cleanText(inner string, preserveFormatting bool) string {
	text := html.UnescapeString(inner)
	text = allTagsRe.ReplaceAllStringFunc(text, func(tag string) string {
		if preserveFormatting && keepFormatRe.MatchString(tag) {
			return tag
		}
		return ""
	})
	return html.UnescapeString(text)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
