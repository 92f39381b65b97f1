// Package recommendation extracts a structured Recommendation from free-form advisor text.
package recommendation

import (
	"regexp"
	"sort"
	"strings"

	"market-advisor/internal/types"
)

type field int

const (
	fieldAction field = iota
	fieldConfidence
	fieldArguments
	fieldRisks
	fieldHorizon
	fieldSummary
)

// Labels accept an optional parenthetical, trailing emphasis, then ":", " - " or end of line.
// A label sharing a line with an earlier one must end in ":".
const (
	labelTail  = `[ \t]*(?:\([^)]*\))?[ \t]*[*_]*[ \t]*(?::|-[ \t]|$)`
	inlineTail = `[ \t]*(?:\([^)]*\))?[ \t]*[*_]*[ \t]*:`
)

type label struct {
	field  field
	start  *regexp.Regexp
	inline *regexp.Regexp
}

func newLabel(f field, name string) label {
	return label{
		field:  f,
		start:  regexp.MustCompile(`(?i)^` + name + labelTail),
		inline: regexp.MustCompile(`(?i)\b` + name + inlineTail),
	}
}

var labels = []label{
	newLabel(fieldAction, `(?:(?:overall|final|investment)[ \t]+)?recommendation`),
	newLabel(fieldConfidence, `confidence(?:[ \t]+level)?`),
	newLabel(fieldArguments, `(?:(?:key|main|supporting)[ \t]+)?arguments?`),
	newLabel(fieldRisks, `(?:(?:key|main|potential)[ \t]+)?risks?(?:[ \t]+factors?)?`),
	newLabel(fieldHorizon, `(?:(?:time|investment)[ \t]+)?horizon`),
	newLabel(fieldSummary, `(?:(?:brief|executive)[ \t]+)?summary`),
}

var (
	// "-" is not stripped so bulleted prose never becomes a heading.
	headingPrefix = regexp.MustCompile(`^[\s#>*_]*(?:\d+[.)])?[\s#>*_]*`)
	numberedEntry = regexp.MustCompile(`^[ \t]*\d+[.)][ \t]`)
	listMarker    = regexp.MustCompile(`^(?:[-*•+]|\d+[.)])(?:\s+|$)`)

	actionWord     = regexp.MustCompile(`(?i)\b(buy|hold|sell)\b`)
	confidenceWord = regexp.MustCompile(`(?i)\b(high|medium|low)\b`)
	horizonWord    = regexp.MustCompile(`(?i)\b(short|medium|long)[- ]?term\b`)
)

// Candidate ranks, strongest first. A numbered label line directly under an
// arguments or risks label may just be a list entry, so it only counts when
// no stronger candidate for the same field exists.
const (
	rankHeading     = iota // label opening a line
	rankListHeading        // numbered label line inside a list, nothing after the label
	rankListEntry          // numbered label line inside a list, text after the label
	rankInline             // label sharing a line with an earlier label
)

// mark is a byte position in the split text.
type mark struct {
	line, col int
}

func (m mark) before(o mark) bool {
	return m.line < o.line || (m.line == o.line && m.col < o.col)
}

type heading struct {
	field field
	rank  int
	at    mark // start of the label
	body  mark // first byte after the label
}

// Parse never fails. When no labeled section is found the whole text becomes the summary.
func Parse(symbol, raw string) types.Recommendation {
	rec := types.Recommendation{
		Symbol:       symbol,
		KeyArguments: []string{},
		RiskFactors:  []string{},
		Raw:          raw,
	}

	lines := splitLines(raw)
	headings, stops := findHeadings(lines)
	if len(headings) == 0 {
		rec.Summary = raw
		return rec
	}

	for _, h := range headings {
		end := mark{line: len(lines)}
		for _, s := range stops {
			if h.at.before(s) {
				end = s
				break
			}
		}
		span := spanLines(lines, h.body, end)

		switch h.field {
		case fieldAction:
			if m := actionWord.FindStringSubmatch(strings.Join(span, "\n")); m != nil {
				rec.Action = types.Action(strings.ToUpper(m[1]))
			}
		case fieldConfidence:
			if m := confidenceWord.FindStringSubmatch(strings.Join(span, "\n")); m != nil {
				rec.Confidence = types.Confidence(strings.ToUpper(m[1]))
			}
		case fieldHorizon:
			if m := horizonWord.FindStringSubmatch(strings.Join(span, "\n")); m != nil {
				rec.Horizon = types.Horizon(strings.ToUpper(m[1]) + "_TERM")
			}
		case fieldArguments:
			rec.KeyArguments = listEntries(span, types.MaxKeyArguments)
		case fieldRisks:
			rec.RiskFactors = listEntries(span, types.MaxRiskFactors)
		case fieldSummary:
			rec.Summary = paragraph(span)
		}
	}

	rec.Parsed = rec.Action != "" &&
		rec.Confidence != "" &&
		rec.Horizon != "" &&
		len(rec.KeyArguments) > 0 &&
		rec.Summary != ""
	if rec.Summary == "" {
		rec.Summary = raw
	}
	return rec
}

func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

func isList(f field) bool {
	return f == fieldArguments || f == fieldRisks
}

// candidates returns every label occurrence in text order.
func candidates(lines []string) []heading {
	var out []heading
	last := field(-1)
	for i, line := range lines {
		prefix := len(headingPrefix.FindString(line))
		var first *heading
		for _, l := range labels {
			loc := l.start.FindStringIndex(line[prefix:])
			if loc == nil {
				continue
			}
			h := heading{field: l.field, rank: rankHeading, at: mark{i, 0}, body: mark{i, prefix + loc[1]}}
			if isList(last) && numberedEntry.MatchString(line) {
				h.rank = rankListEntry
				if strings.Trim(line[h.body.col:], " \t*_") == "" {
					h.rank = rankListHeading
				}
			}
			first = &h
			break
		}
		if first == nil {
			continue
		}
		out = append(out, *first)
		last = first.field

		var inline []heading
		for _, l := range labels {
			if l.field == first.field {
				continue
			}
			if loc := l.inline.FindStringIndex(line[first.body.col:]); loc != nil {
				inline = append(inline, heading{
					field: l.field,
					rank:  rankInline,
					at:    mark{i, first.body.col + loc[0]},
					body:  mark{i, first.body.col + loc[1]},
				})
			}
		}
		sort.Slice(inline, func(a, b int) bool { return inline[a].at.col < inline[b].at.col })
		out = append(out, inline...)
		if n := len(inline); n > 0 {
			last = inline[n-1].field
		}
	}
	return out
}

// findHeadings picks the strongest, then earliest, candidate for each field.
// stops holds where spans end: every chosen heading plus any repeated label
// that opens a line.
func findHeadings(lines []string) (headings []heading, stops []mark) {
	all := candidates(lines)
	best := make(map[field]int, len(labels))
	for i, h := range all {
		if j, ok := best[h.field]; !ok || h.rank < all[j].rank {
			best[h.field] = i
		}
	}
	for i, h := range all {
		switch {
		case best[h.field] == i:
			headings = append(headings, h)
			stops = append(stops, h.at)
		case h.rank == rankHeading:
			stops = append(stops, h.at)
		}
	}
	return headings, stops
}

// spanLines returns the text between from and to, one element per line.
func spanLines(lines []string, from, to mark) []string {
	first := lines[from.line][from.col:]
	if from.line == to.line {
		if to.col < from.col {
			return []string{""}
		}
		return []string{strings.Trim(lines[from.line][from.col:to.col], " \t*_")}
	}
	span := []string{strings.Trim(first, " \t*_")}
	span = append(span, lines[from.line+1:to.line]...)
	if to.line < len(lines) && to.col > 0 {
		span = append(span, lines[to.line][:to.col])
	}
	return span
}

func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "**", ""))
}

func listEntries(span []string, limit int) []string {
	entries := []string{}
	// Unmarked lines continue an entry only once the list uses markers.
	marked := false
	for _, line := range span {
		line = clean(line)
		if line == "" {
			continue
		}
		if m := listMarker.FindString(line); m != "" {
			if entry := strings.TrimSpace(line[len(m):]); entry != "" {
				entries = append(entries, entry)
				marked = true
			}
			continue
		}
		if n := len(entries); n > 0 && marked {
			entries[n-1] += " " + line
		} else {
			entries = append(entries, line)
		}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func paragraph(span []string) string {
	parts := make([]string, 0, len(span))
	for _, line := range span {
		if line = clean(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
