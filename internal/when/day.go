// Package when turns a loose day phrase ("завтра", "next friday") into a
// stored day name.
package when

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/olebedev/when/rules/ru"

	"github.com/steveyegge/weekdo/internal/schema"
)

// ErrNoDay is returned when a phrase names no recognizable day.
var ErrNoDay = errors.New("no day found")

var (
	parserOnce sync.Once
	parser     *when.Parser
)

func getParser() *when.Parser {
	parserOnce.Do(func() {
		parser = when.New(nil)
		parser.Add(ru.All...)
		parser.Add(en.All...)
		parser.Add(common.All...)
	})
	return parser
}

// ResolveDay returns the lowercase day name for phrase. An exact day name in
// any case is returned as is; anything else is parsed relative to now.
func ResolveDay(phrase string, now time.Time) (string, error) {
	p := strings.TrimSpace(phrase)
	if p == "" {
		return "", ErrNoDay
	}
	if schema.IsValidDay(p) {
		return schema.NormalizeDay(p), nil
	}

	r, err := getParser().Parse(p, now)
	if err != nil {
		return "", fmt.Errorf("failed to parse %q: %w", phrase, err)
	}
	if r == nil {
		return "", fmt.Errorf("%q: %w", phrase, ErrNoDay)
	}
	return schema.DayForWeekday(r.Time.Weekday()), nil
}
