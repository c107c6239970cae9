package vercomp

import (
	"fmt"
	"strconv"
)

// NumericParser handles release tags such as "v2.3", "2.3.1" or "2.1-1".
type NumericParser struct{}

func (p *NumericParser) Name() string {
	return "NumericParser"
}

func (p *NumericParser) CanParse(v string) bool {
	_, err := p.Parse(v)
	return err == nil
}

func (p *NumericParser) Parse(v string) (interface{}, error) {
	fields := splitVersion(v)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty version")
	}
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("non-numeric version part %q", f)
		}
		parts[i] = n
	}
	return parts, nil
}

func (p *NumericParser) Compare(a, b interface{}) int {
	partsA := a.([]int)
	partsB := b.([]int)
	n := max(len(partsA), len(partsB))
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(partsA) {
			x = partsA[i]
		}
		if i < len(partsB) {
			y = partsB[i]
		}
		if x < y {
			return Less
		} else if x > y {
			return Greater
		}
	}
	return Equal
}
