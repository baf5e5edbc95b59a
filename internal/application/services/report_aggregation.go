package services

import (
	"sort"
	"strings"
	"time"

	"github.com/civicpulse/backend/internal/domain/entities"
)

// UndefinedBucket collects rows whose grouping field is empty.
const UndefinedBucket = "NON_DEFINI"

// ReportField extracts the grouping value of a report.
type ReportField func(r *entities.Report) string

// Grouping fields used by the insights pipeline.
var (
	ByReportStatus  ReportField = func(r *entities.Report) string { return r.Status }
	ByReportType    ReportField = func(r *entities.Report) string { return r.Type }
	ByReportService ReportField = func(r *entities.Report) string { return r.AssignedService }
)

// CountBy counts reports per uppercased field value. Empty values land in
// UndefinedBucket, so the counts always sum to len(reports).
func CountBy(reports []*entities.Report, field ReportField) map[string]int {
	counts := make(map[string]int)
	for _, r := range reports {
		if r == nil {
			continue
		}
		counts[bucketKey(field(r))]++
	}
	return counts
}

// CountWindow counts reports created in [from, to). Reports without a usable
// timestamp are skipped.
func CountWindow(reports []*entities.Report, from, to time.Time) int {
	n := 0
	for _, r := range reports {
		if r == nil || !r.HasTimestamp() {
			continue
		}
		if !r.CreatedAt.Before(from) && r.CreatedAt.Before(to) {
			n++
		}
	}
	return n
}

// DailyCounts counts reports per UTC calendar day (YYYY-MM-DD).
func DailyCounts(reports []*entities.Report) map[string]int {
	counts := make(map[string]int)
	for _, r := range reports {
		if r == nil || !r.HasTimestamp() {
			continue
		}
		counts[r.CreatedAt.UTC().Format("2006-01-02")]++
	}
	return counts
}

// TopBucket returns the key with the highest count. Ties go to the
// alphabetically smaller key so the result does not depend on map order.
func TopBucket(counts map[string]int, exclude ...string) (string, int) {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		if _, ok := skip[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount
}

func filterCreatedSince(reports []*entities.Report, since time.Time) []*entities.Report {
	out := make([]*entities.Report, 0, len(reports))
	for _, r := range reports {
		if r == nil || !r.HasTimestamp() || r.CreatedAt.Before(since) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func bucketKey(value string) string {
	key := strings.ToUpper(strings.TrimSpace(value))
	if key == "" {
		return UndefinedBucket
	}
	return key
}
