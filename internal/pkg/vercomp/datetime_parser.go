package vercomp

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateTimeParser orders snapshot builds tagged with a date, such as
// "nightly-20240501" or "master-2024-05-01T10:00:00Z". A text label before
// the first digit is ignored.
type DateTimeParser struct {
	Layouts []string
}

type snapshot struct {
	label string
	at    time.Time
}

func (p *DateTimeParser) Name() string {
	return "DateTimeParser"
}

func (p *DateTimeParser) CanParse(v string) bool {
	_, err := p.Parse(v)
	return err == nil
}

func (p *DateTimeParser) Parse(v string) (interface{}, error) {
	label, stamp := splitLabel(v)
	for _, layout := range p.Layouts {
		if t, err := time.Parse(layout, stamp); err == nil {
			return snapshot{label: label, at: t}, nil
		}
	}
	return nil, errors.Errorf("unsupported datetime format %q", v)
}

func (p *DateTimeParser) Compare(a, b interface{}) int {
	snapA := a.(snapshot)
	snapB := b.(snapshot)
	if snapA.at.Before(snapB.at) {
		return Less
	} else if snapA.at.After(snapB.at) {
		return Greater
	}
	return Equal
}

func splitLabel(v string) (string, string) {
	i := strings.IndexAny(v, "0123456789")
	if i <= 0 {
		return "", v
	}
	return strings.TrimRight(v[:i], "-_."), v[i:]
}
