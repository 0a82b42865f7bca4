package journal

import "petsim/internal/machine"

// Summary counts what happened in a set of entries.
type Summary struct {
	Applied  int                   `json:"applied"`
	Rejected int                   `json:"rejected"`
	StageUps int                   `json:"stage_ups"`
	Deaths   int                   `json:"deaths"`
	ByEvent  map[machine.Event]int `json:"by_event"`
}

// Summarize tallies entries by kind, and applied actions by event.
func Summarize(entries []Entry) Summary {
	s := Summary{ByEvent: map[machine.Event]int{}}
	for _, e := range entries {
		switch e.Kind {
		case machine.EffectApplied:
			s.Applied++
			s.ByEvent[e.Event]++
		case machine.EffectRejected:
			s.Rejected++
		case machine.EffectStageUp:
			s.StageUps++
		case machine.EffectDied:
			s.Deaths++
		}
	}
	return s
}
