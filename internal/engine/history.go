package engine

import "github.com/pipelift/pipelift/internal/trigger"

// History is the append-only log of firing events. Insertion order is
// chronological and is the natural iteration order; the core never reorders
// or prunes it (export and retention are collaborator concerns).
type History struct {
	records []trigger.FiringRecord
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a firing record to the end of the log.
func (h *History) Append(rec trigger.FiringRecord) {
	h.records = append(h.records, rec)
}

// Records returns a copy of all firing records in append order.
func (h *History) Records() []trigger.FiringRecord {
	out := make([]trigger.FiringRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of recorded firings.
func (h *History) Len() int {
	return len(h.records)
}

// CountFor returns the number of firings recorded for a trigger name.
// Always equal to that trigger's fire count.
func (h *History) CountFor(name string) int {
	n := 0
	for _, rec := range h.records {
		if rec.TriggerName == name {
			n++
		}
	}
	return n
}

// Stats summarizes the history log.
type Stats struct {
	Total           int                  `json:"total"`
	ByKind          map[trigger.Kind]int `json:"by_kind"`
	ByName          map[string]int       `json:"by_name"`
	MostActive      string               `json:"most_active,omitempty"`
	MostActiveCount int                  `json:"most_active_count,omitempty"`
	// Recent holds the last N records in append (chronological) order.
	Recent []trigger.FiringRecord `json:"recent,omitempty"`
}

// Stats aggregates counts by kind and name, picks the most active trigger
// (ties broken by first appearance in the log, so aggregation is stable), and
// returns the last recentN records in chronological order.
func (h *History) Stats(recentN int) Stats {
	s := Stats{
		Total:  len(h.records),
		ByKind: make(map[trigger.Kind]int),
		ByName: make(map[string]int),
	}

	var nameOrder []string
	for _, rec := range h.records {
		s.ByKind[rec.Kind]++
		if _, seen := s.ByName[rec.TriggerName]; !seen {
			nameOrder = append(nameOrder, rec.TriggerName)
		}
		s.ByName[rec.TriggerName]++
	}

	for _, name := range nameOrder {
		if s.ByName[name] > s.MostActiveCount {
			s.MostActive = name
			s.MostActiveCount = s.ByName[name]
		}
	}

	if recentN > 0 {
		start := len(h.records) - recentN
		if start < 0 {
			start = 0
		}
		s.Recent = make([]trigger.FiringRecord, len(h.records)-start)
		copy(s.Recent, h.records[start:])
	}

	return s
}
