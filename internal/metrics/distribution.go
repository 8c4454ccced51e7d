// Package metrics derives engagement statistics from a snapshot of tracked problems.
//
// Every function here is pure: same records and same "now" give the same result,
// and the empty collection is always a valid input.
package metrics

import "github.com/MrSnakeDoc/solvelog/internal/domain"

const (
	// OtherPlatform is the bucket for records without a platform label.
	OtherPlatform = "Other"
	// NoTag is reported by TopTag when no record carries a tag.
	NoTag = "N/A"
)

// Bucket is one bar of a distribution chart.
type Bucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// BucketFunc maps a record to its bucket label.
type BucketFunc func(p domain.Problem) string

// Distribution counts records per bucket.
// Fixed labels are always present, in the given order, even with a zero count.
// Any other label is appended in first-seen order.
// Percentages are 0 when there are no records.
func Distribution(records []domain.Problem, bucketOf BucketFunc, fixed ...string) []Bucket {
	buckets := make([]Bucket, 0, len(fixed))
	pos := make(map[string]int, len(fixed))
	for _, label := range fixed {
		pos[label] = len(buckets)
		buckets = append(buckets, Bucket{Label: label})
	}

	for _, p := range records {
		label := bucketOf(p)
		i, ok := pos[label]
		if !ok {
			i = len(buckets)
			pos[label] = i
			buckets = append(buckets, Bucket{Label: label})
		}
		buckets[i].Count++
	}

	total := len(records)
	for i := range buckets {
		buckets[i].Percent = percent(buckets[i].Count, total)
	}
	return buckets
}

// DifficultyBucket maps a difficulty to Easy, Medium or Hard.
// Absent and unrecognized values (numeric ratings, "Basic", ...) fall into Medium
// so that the three buckets always add up to the total.
func DifficultyBucket(p domain.Problem) string {
	switch p.Difficulty {
	case domain.DifficultyEasy, domain.DifficultyHard:
		return p.Difficulty
	default:
		return domain.DifficultyMedium
	}
}

// PlatformBucket maps a record to its platform label, or "Other".
func PlatformBucket(p domain.Problem) string {
	if p.Platform == "" {
		return OtherPlatform
	}
	return p.Platform
}

// DifficultyDistribution is the Easy/Medium/Hard chart.
func DifficultyDistribution(records []domain.Problem) []Bucket {
	return Distribution(records, DifficultyBucket,
		domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard)
}

// PlatformDistribution is the per-platform chart.
func PlatformDistribution(records []domain.Problem) []Bucket {
	return Distribution(records, PlatformBucket)
}

// HardCount counts records in the Hard bucket.
func HardCount(records []domain.Problem) int {
	n := 0
	for _, p := range records {
		if DifficultyBucket(p) == domain.DifficultyHard {
			n++
		}
	}
	return n
}

// TopTag returns the most frequent tag across all records.
// On ties, the tag that reached the winning count first wins.
func TopTag(records []domain.Problem) string {
	freq := make(map[string]int)
	top, best := NoTag, 0
	for _, p := range records {
		for _, tag := range p.Tags {
			freq[tag]++
			if freq[tag] > best {
				best = freq[tag]
				top = tag
			}
		}
	}
	return top
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}
