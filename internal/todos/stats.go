package todos

import (
	"github.com/steveyegge/weekdo/internal/schema"
)

// Stats counts todos overall, completed and per day.
type Stats struct {
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	ByDay     map[string]int `json:"by_day"`
}

// Summarize computes Stats for todos. Every day appears in ByDay.
func Summarize(todos []schema.Todo) Stats {
	st := Stats{
		ByDay: make(map[string]int, len(schema.Days)),
	}
	for _, d := range schema.Days {
		st.ByDay[d] = 0
	}
	for _, t := range todos {
		st.Total++
		if t.Completed {
			st.Completed++
		}
		st.ByDay[schema.NormalizeDay(t.Day)]++
	}
	return st
}
