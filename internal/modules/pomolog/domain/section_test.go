package domain_test

import (
	"strings"
	"testing"
	"time"

	"mdpomo/internal/modules/pomolog/domain"
)

var day = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

const todayPrefix = "## 2024-03-05 (Tuesday)"

func entry(kind domain.EntryKind, at string, d time.Duration, link string) string {
	ts, _ := time.Parse("15:04", at)
	return domain.Entry{Kind: kind, At: ts, Duration: d, HasDuration: d > 0, NoteLink: link}.Render()
}

func TestHeadingFormat(t *testing.T) {
	t.Parallel()
	if got := domain.HeadingPrefix(day); got != todayPrefix {
		t.Fatalf("unexpected prefix %q", got)
	}
	got := domain.BuildHeading(day, domain.Totals{Work: 50 * time.Minute, Break: 70 * time.Minute})
	want := todayPrefix + " — 🍅 50:00, 🏖 01:10:00, Σ 02:00:00"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEntryRender(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		entry(domain.EntryWorkComplete, "09:25", 25*time.Minute, "[[Thesis]]"): "[🍅] 09:25 — 25:00 [[Thesis]]",
		entry(domain.EntryWorkStart, "09:00", 0, ""):                           "[🍅 Start] 09:00",
		entry(domain.EntryWorkQuitEarly, "09:12", 12*time.Minute, ""):          "[🍅 Quit Early] 09:12 — 12:00",
		entry(domain.EntryBreakStart, "09:25", 0, "[[Thesis]]"):                "[🏖 Start] 09:25 [[Thesis]]",
		entry(domain.EntryBreakComplete, "09:30", 5*time.Minute, ""):           "[🏖] 09:30 — 05:00",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestAppendEntryTwiceKeepsOneHeading(t *testing.T) {
	t.Parallel()
	first := entry(domain.EntryWorkStart, "09:00", 0, "")
	second := entry(domain.EntryWorkComplete, "09:25", 25*time.Minute, "")

	content, created := domain.AppendEntry("", day, first)
	if !created {
		t.Fatalf("expected section to be created")
	}
	content, created = domain.AppendEntry(content, day, second)
	if created {
		t.Fatalf("second append must reuse the section")
	}
	if n := strings.Count(content, todayPrefix); n != 1 {
		t.Fatalf("expected one heading, got %d in %q", n, content)
	}
	want := todayPrefix + " — 🍅 00:00, 🏖 00:00, Σ 00:00\n" + first + "\n\n" + second
	if content != want {
		t.Fatalf("unexpected document:\n%s\nwant:\n%s", content, want)
	}
}

func TestAppendEntryInsertsBeforeNextHeading(t *testing.T) {
	t.Parallel()
	doc := "# Log\n" + todayPrefix + " — 🍅 00:00, 🏖 00:00, Σ 00:00\n[🍅 Start] 09:00\n## 2024-03-04 (Monday) — 🍅 25:00, 🏖 00:00, Σ 25:00\n[🍅] 10:00 — 25:00"
	updated, created := domain.AppendEntry(doc, day, "[🍅] 09:25 — 25:00")
	if created {
		t.Fatalf("expected existing section")
	}
	lines := strings.Split(updated, "\n")
	want := []string{
		"# Log",
		todayPrefix + " — 🍅 00:00, 🏖 00:00, Σ 00:00",
		"[🍅 Start] 09:00",
		"",
		"[🍅] 09:25 — 25:00",
		"## 2024-03-04 (Monday) — 🍅 25:00, 🏖 00:00, Σ 25:00",
		"[🍅] 10:00 — 25:00",
	}
	if len(lines) != len(want) {
		t.Fatalf("unexpected lines %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestAppendEntryCreatesSectionAfterExistingContent(t *testing.T) {
	t.Parallel()
	updated, created := domain.AppendEntry("---\nkind: log\n---\nnotes", day, "[🍅 Start] 09:00")
	if !created {
		t.Fatalf("expected new section")
	}
	if !strings.HasPrefix(updated, "---\nkind: log\n---\nnotes\n"+todayPrefix) {
		t.Fatalf("expected heading on its own line, got %q", updated)
	}
	updated, _ = domain.AppendEntry("notes\n", day, "x")
	if updated != "notes\n"+todayPrefix+" — 🍅 00:00, 🏖 00:00, Σ 00:00\nx" {
		t.Fatalf("unexpected document %q", updated)
	}
}

func TestRecomputeSummaryTotals(t *testing.T) {
	t.Parallel()
	content, _ := domain.AppendEntry("", day, entry(domain.EntryWorkStart, "09:00", 0, ""))
	content, _ = domain.AppendEntry(content, day, entry(domain.EntryWorkComplete, "09:25", 25*time.Minute, "[[Thesis]]"))
	content, _ = domain.AppendEntry(content, day, entry(domain.EntryBreakStart, "09:25", 0, ""))
	content, _ = domain.AppendEntry(content, day, entry(domain.EntryBreakComplete, "09:30", 5*time.Minute, ""))

	summary, updated, ok := domain.RecomputeSummary(content, day)
	if !ok {
		t.Fatalf("expected section")
	}
	if summary.Totals.Work != 25*time.Minute || summary.Totals.Break != 5*time.Minute || summary.Totals.Total() != 30*time.Minute {
		t.Fatalf("unexpected totals %+v", summary.Totals)
	}
	wantHeading := todayPrefix + " — 🍅 25:00, 🏖 05:00, Σ 30:00"
	if first := strings.SplitN(updated, "\n", 2)[0]; first != wantHeading {
		t.Fatalf("expected heading %q, got %q", wantHeading, first)
	}
	if summary.Entries != 4 {
		t.Fatalf("expected 4 entries, got %d", summary.Entries)
	}
	if strings.SplitN(updated, "\n", 2)[1] != strings.SplitN(content, "\n", 2)[1] {
		t.Fatalf("entry lines must be left untouched")
	}

	again, rerun, _ := domain.RecomputeSummary(updated, day)
	if rerun != updated || again.Totals != summary.Totals {
		t.Fatalf("recompute must be idempotent")
	}
}

func TestRecomputeSummaryCountsQuitEarlyAndSkipsProblems(t *testing.T) {
	t.Parallel()
	content := strings.Join([]string{
		todayPrefix + " — stale",
		"[🍅 Quit Early] 09:12 — 12:00",
		"[🍅 Quit Early] 09:13",
		"[🍅 Start] 09:20 — 99:99",
		"- [🍅] 09:45 — 25:00",
		"[🍅] 10:10 — 2x:00",
		"[🍅] 10:11",
		"[🏖️] 10:20 — 01:00:00",
		"[🏖] 10:21",
		"free text — 10:00",
		"[🍅]",
	}, "\r\n")

	summary, updated, ok := domain.RecomputeSummary(content, day)
	if !ok {
		t.Fatalf("expected section")
	}
	if summary.Totals.Work != 37*time.Minute {
		t.Fatalf("expected 37m of work, got %s", summary.Totals.Work)
	}
	if summary.Totals.Break != time.Hour {
		t.Fatalf("expected 1h of break, got %s", summary.Totals.Break)
	}
	if len(summary.Problems) != 3 {
		t.Fatalf("expected malformed, missing and bare entries as problems, got %v", summary.Problems)
	}
	if summary.Problems[0].Line != 6 {
		t.Fatalf("expected first problem on line 6, got %d", summary.Problems[0].Line)
	}
	if strings.Contains(updated, "\r") {
		t.Fatalf("rewritten document must use \\n line breaks")
	}
}

func TestRecomputeSummaryWithoutSectionIsNoop(t *testing.T) {
	t.Parallel()
	content := "## 2024-03-04 (Monday) — 🍅 00:00, 🏖 00:00, Σ 00:00\n[🍅] 09:25 — 25:00"
	_, updated, ok := domain.RecomputeSummary(content, day)
	if ok || updated != content {
		t.Fatalf("expected unchanged document, got ok=%v %q", ok, updated)
	}
}

func TestParseDays(t *testing.T) {
	t.Parallel()
	content := strings.Join([]string{
		"# Pomodoro Log",
		"## 2024-03-04 (Monday) — 🍅 99:00, 🏖 00:00, Σ 99:00",
		"[🍅] 09:25 — 25:00",
		"",
		"[🏖] 09:30 — 05:00",
		"## Notes",
		"[🍅] 11:00 — 25:00",
		todayPrefix + " — 🍅 00:00, 🏖 00:00, Σ 00:00",
		"[🍅] 10:00 — 50:00",
	}, "\n")
	days := domain.ParseDays(content)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %+v", days)
	}
	if days[0].Day != "2024-03-04" || days[0].Weekday != "Monday" {
		t.Fatalf("unexpected first day %+v", days[0])
	}
	if days[0].Totals.Work != 25*time.Minute || days[0].Totals.Break != 5*time.Minute || days[0].Entries != 2 {
		t.Fatalf("totals must be recomputed from entries, got %+v", days[0])
	}
	if days[1].Day != "2024-03-05" || days[1].Totals.Work != 50*time.Minute {
		t.Fatalf("unexpected second day %+v", days[1])
	}
}

func TestClassifyLine(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.EntryKind{
		"[🍅] 09:25 — 25:00":           domain.EntryWorkComplete,
		"  [🍅 Start] 09:00":           domain.EntryWorkStart,
		"[🍅 Quit Early] 09:12":        domain.EntryWorkQuitEarly,
		"[🏖️ Start] 09:25":            domain.EntryBreakStart,
		"[🏖] 09:30 — 05:00 [[Start]]": domain.EntryBreakComplete,
		"[x] done":                    domain.EntryNone,
		"🍅 09:25":                     domain.EntryNone,
	}
	for line, want := range cases {
		if got, _ := domain.ClassifyLine(line); got != want {
			t.Fatalf("ClassifyLine(%q) = %d, want %d", line, got, want)
		}
	}
}

func TestParseEntryKind(t *testing.T) {
	t.Parallel()
	kind, err := domain.ParseEntryKind("work-quit-early")
	if err != nil || kind != domain.EntryWorkQuitEarly {
		t.Fatalf("unexpected kind %d %v", kind, err)
	}
	if _, err := domain.ParseEntryKind("nap"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
