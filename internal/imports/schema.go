package imports

// Entry is one record of an import file.
//
// Files are either a solvelog export (JSON array of problems) or a
// hand-written YAML seed list, for example:
//
//	- url: https://leetcode.com/problems/two-sum/
//	  tags: [Array, Hash Table]
//	  difficulty: Easy
//	  solved: 2026-03-01
//	  note: one pass with a map
type Entry struct {
	ID         string   `yaml:"id"`
	URL        string   `yaml:"url"`
	Platform   string   `yaml:"platform"`
	Title      string   `yaml:"title"`
	Tags       []string `yaml:"tags"`
	Difficulty string   `yaml:"difficulty"`
	Timestamp  int64    `yaml:"timestamp"` // ms since epoch, as exported
	Solved     string   `yaml:"solved"`    // "2006-01-02" or RFC 3339, seed files only
	Note       string   `yaml:"note"`
}

// File is the root structure of an import file.
type File []Entry
