package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"mdpomo/internal/platform/duration"
)

const dayLayout = "2006-01-02"

var (
	lineBreak      = regexp.MustCompile(`\r?\n`)
	datedHeading   = regexp.MustCompile(`^## (\d{4}-\d{2}-\d{2}) \((\p{L}+)\)`)
	sectionMarkers = []string{"## ", "# "}
)

// Totals are the summed durations of one day section.
type Totals struct {
	Work  time.Duration
	Break time.Duration
}

func (t Totals) Total() time.Duration { return t.Work + t.Break }

// LineProblem records an entry whose duration could not be read. The entry
// contributes zero to the totals.
type LineProblem struct {
	Line int
	Text string
	Err  error
}

func (p LineProblem) String() string {
	return fmt.Sprintf("line %d: %v", p.Line, p.Err)
}

// Summary is the result of scanning one section.
type Summary struct {
	Day      string
	Weekday  string
	Heading  string
	Totals   Totals
	Entries  int
	Body     string
	Problems []LineProblem
}

// HeadingPrefix identifies the section of day. Two sections are the same day
// exactly when their prefixes are equal.
func HeadingPrefix(day time.Time) string {
	return fmt.Sprintf("## %s (%s)", day.Format(dayLayout), day.Weekday())
}

func BuildHeading(day time.Time, totals Totals) string {
	return fmt.Sprintf("%s — %s %s, %s %s, %s %s",
		HeadingPrefix(day),
		WorkTag, duration.Format(totals.Work),
		BreakTag, duration.Format(totals.Break),
		SumTag, duration.Format(totals.Total()),
	)
}

func SplitLines(content string) []string {
	return lineBreak.Split(content, -1)
}

// FindSection returns the heading index and the exclusive end of the first
// section whose heading starts with prefix. The section ends at the next
// level-one or level-two heading, or at the end of lines.
func FindSection(lines []string, prefix string) (start, end int, ok bool) {
	start = -1
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			start = i
			break
		}
	}
	if start < 0 {
		return -1, -1, false
	}
	end = len(lines)
	for i := start + 1; i < len(lines); i++ {
		if isSectionBoundary(lines[i]) {
			end = i
			break
		}
	}
	return start, end, true
}

func isSectionBoundary(line string) bool {
	for _, marker := range sectionMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// AppendEntry places line at the end of day's section, creating the section
// with zero totals at the end of the document when it does not exist.
func AppendEntry(content string, day time.Time, line string) (updated string, created bool) {
	lines := SplitLines(content)
	_, end, ok := FindSection(lines, HeadingPrefix(day))
	if !ok {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + BuildHeading(day, Totals{}) + "\n" + line, true
	}

	insert := []string{line}
	if end > 0 && lines[end-1] != "" {
		insert = []string{"", line}
	}
	out := make([]string, 0, len(lines)+len(insert))
	out = append(out, lines[:end]...)
	out = append(out, insert...)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), false
}

// AppendPlain adds line to the end of the document without any section
// handling.
func AppendPlain(content, line string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line
}

// RecomputeSummary rewrites the heading of day's section with totals summed
// from its entries. When the section is missing the content is returned
// unchanged and ok is false; no section is created.
func RecomputeSummary(content string, day time.Time) (summary Summary, updated string, ok bool) {
	lines := SplitLines(content)
	start, end, found := FindSection(lines, HeadingPrefix(day))
	if !found {
		return Summary{}, content, false
	}
	summary = scanSection(lines, start, end)
	summary.Day = day.Format(dayLayout)
	summary.Weekday = day.Weekday().String()
	summary.Heading = BuildHeading(day, summary.Totals)
	lines[start] = summary.Heading
	return summary, strings.Join(lines, "\n"), true
}

// ParseDays scans every dated section of the document, in document order.
// Totals are recomputed from the entries; the heading text is not trusted.
func ParseDays(content string) []Summary {
	lines := SplitLines(content)
	var days []Summary
	for i, line := range lines {
		match := datedHeading.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if isSectionBoundary(lines[j]) {
				end = j
				break
			}
		}
		summary := scanSection(lines, i, end)
		summary.Day = match[1]
		summary.Weekday = match[2]
		summary.Heading = line
		days = append(days, summary)
	}
	return days
}

func scanSection(lines []string, start, end int) Summary {
	var summary Summary
	for i := start + 1; i < end; i++ {
		kind, rest := ClassifyLine(lines[i])
		if kind == EntryNone {
			continue
		}
		summary.Entries++
		if !kind.CountsAsWork() && !kind.CountsAsBreak() {
			continue
		}
		token, found := DurationToken(rest)
		if !found {
			if kind == EntryWorkComplete {
				summary.Problems = append(summary.Problems, LineProblem{
					Line: i + 1,
					Text: lines[i],
					Err:  fmt.Errorf("completed pomodoro without duration"),
				})
			}
			continue
		}
		d, err := duration.Parse(token)
		if err != nil {
			summary.Problems = append(summary.Problems, LineProblem{Line: i + 1, Text: lines[i], Err: err})
			continue
		}
		if kind.CountsAsWork() {
			summary.Totals.Work += d
		} else {
			summary.Totals.Break += d
		}
	}
	summary.Body = strings.Join(lines[start+1:end], "\n")
	return summary
}
