package vercomp

import (
	"strconv"
	"strings"
	"time"
)

// compare result
const (
	Less    = -1
	Equal   = 0
	Greater = 1
	Invalid = 0
)

type CompareResult struct {
	Comparable bool
	Result     int // -1, 0, 1 (only when comparable)
}

type Parser interface {
	Name() string
	CanParse(version string) bool
	Parse(version string) (interface{}, error)
	Compare(a, b interface{}) int
}

type VersionComparator struct {
	parsers []Parser
}

func NewComparator() *VersionComparator {
	return &VersionComparator{
		parsers: []Parser{
			&NumericParser{}, // 1: dotted/hyphenated numbers, release tags
			&SemVerParser{},  // 2: SemVer with pre-release labels
			&DateTimeParser{ // 3: DateTime
				Layouts: []string{
					time.RFC3339,
					time.DateTime,
					time.DateOnly,
					"20060102",
				},
			},
		},
	}
}

func (c *VersionComparator) AddParser(p Parser) {
	c.parsers = append(c.parsers, p)
}

// Compare uses the first parser that understands both versions.
func (c *VersionComparator) Compare(v1, v2 string) CompareResult {
	for _, p := range c.parsers {
		if !p.CanParse(v1) || !p.CanParse(v2) {
			continue
		}
		parsed1, err := p.Parse(v1)
		if err != nil {
			continue
		}
		parsed2, err := p.Parse(v2)
		if err != nil {
			continue
		}
		return CompareResult{
			Comparable: true,
			Result:     p.Compare(parsed1, parsed2),
		}
	}
	return CompareResult{Comparable: false}
}

// CompareLoose always yields an order. Both versions are split on '.' and '-'
// after dropping a leading 'v'; each part counts as its first run of digits
// ("v2" is 2, "rc1" is 1), parts without digits count as zero and the shorter
// side is padded with zeros.
func CompareLoose(v1, v2 string) int {
	a, b := looseParts(v1), looseParts(v2)
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		switch {
		case x < y:
			return Less
		case x > y:
			return Greater
		}
	}
	return Equal
}

func looseParts(v string) []int {
	fields := splitVersion(v)
	parts := make([]int, len(fields))
	for i, f := range fields {
		parts[i] = digitsInt(f)
	}
	return parts
}

func splitVersion(v string) []string {
	v = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(v), "v"), "V")
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-'
	})
}

// digitsInt reads the first run of digits in s, or 0 when there is none.
func digitsInt(s string) int {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}
