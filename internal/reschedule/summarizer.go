package reschedule

import (
	"sort"

	id "padoca/pkg/domain"
)

// topClientsBound caps the TopClients list.
const topClientsBound = 3

// Summarize rolls a reschedule event set into fleet-level statistics. Pure;
// recomputed on demand rather than incrementally patched to avoid drift.
//
// TopClients ties are broken by first-seen order, which keeps summaries
// reproducible for a given event sequence.
func Summarize(events []Event) Summary {
	summary := Summary{TopClients: []ClientCount{}}
	if len(events) == 0 {
		return summary
	}

	summary.TotalCount = len(events)

	totalShifted := 0
	counts := make(map[id.ClientID]int)
	var firstSeen []id.ClientID
	for _, ev := range events {
		totalShifted += ev.WeeksShifted
		if _, seen := counts[ev.ClientID]; !seen {
			firstSeen = append(firstSeen, ev.ClientID)
		}
		counts[ev.ClientID]++
	}
	summary.MeanWeeksShifted = float64(totalShifted) / float64(len(events))

	ranked := make([]ClientCount, 0, len(firstSeen))
	for _, cid := range firstSeen {
		ranked = append(ranked, ClientCount{ClientID: cid, Count: counts[cid]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	if len(ranked) > topClientsBound {
		ranked = ranked[:topClientsBound]
	}
	summary.TopClients = ranked
	return summary
}
