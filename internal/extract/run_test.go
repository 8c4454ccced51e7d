package extract

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		raw, expected string
	}{
		{"A. Watermelon", "Watermelon"},
		{"B2. Tokitsukaze", "Tokitsukaze"},
		{"1234. Some   Problem ", "Some Problem"},
		{"1. Two Sum", "Two Sum"},
		{"3Sum", "3Sum"},
		{"Two Sum", "Two Sum"},
		{"  spaced\n\tout  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := CleanTitle(tt.raw); got != tt.expected {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		url      string
		platform string
		ok       bool
	}{
		{"https://leetcode.com/problems/two-sum/", "LeetCode", true},
		{"https://leetcode.cn/problems/two-sum/", "LeetCode", true},
		{"https://codeforces.com/contest/4/problem/A", "CodeForces", true},
		{"https://m1.codeforces.com/contest/4/problem/A", "CodeForces", true},
		{"https://www.hackerrank.com/challenges/x", "HackerRank", true},
		{"https://practice.geeksforgeeks.org/problems/x", "GeeksforGeeks", true},
		{"https://www.codechef.com/problems/X", "CodeChef", true},
		{"https://notleetcode.com/problems/x", "", false},
		{"https://leetcode.com.evil.io/x", "", false},
		{"not a url", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			ex, ok := Classify(tt.url)
			if ok != tt.ok {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.url, ok, tt.ok)
			}
			if ok && ex.Platform() != tt.platform {
				t.Errorf("Classify(%q) = %s, want %s", tt.url, ex.Platform(), tt.platform)
			}
		})
	}
}

func TestExtractorsCoverEveryPlatform(t *testing.T) {
	seen := map[string]bool{}
	for _, ex := range Extractors() {
		seen[ex.Platform()] = true
	}
	for _, p := range []string{"LeetCode", "CodeForces", "HackerRank", "GeeksforGeeks", "CodeChef"} {
		if !seen[p] {
			t.Errorf("no extractor for %s", p)
		}
	}
}
