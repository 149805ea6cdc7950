package booking

import (
	"fmt"

	"github.com/bengkelhub/bengkel-booking/internal/config"
)

// SlotSet is the ordered list of bookable daily time labels.
type SlotSet struct {
	labels []string
	index  map[string]int
}

func NewSlotSet(labels []string) (SlotSet, error) {
	if err := config.ValidateSlots(labels); err != nil {
		return SlotSet{}, fmt.Errorf("invalid slot set: %w", err)
	}

	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return SlotSet{labels: append([]string(nil), labels...), index: idx}, nil
}

func (s SlotSet) Contains(label string) bool {
	_, ok := s.index[label]
	return ok
}

// Labels returns a copy of the canonical order.
func (s SlotSet) Labels() []string {
	return append([]string(nil), s.labels...)
}

// Resolve splits the canonical slots into free and held ones, keeping
// canonical order. Held labels outside the set are ignored.
func (s SlotSet) Resolve(held []string) (available, booked []string) {
	taken := make(map[string]struct{}, len(held))
	for _, h := range held {
		taken[h] = struct{}{}
	}

	available = make([]string, 0, len(s.labels))
	booked = make([]string, 0, len(held))
	for _, l := range s.labels {
		if _, ok := taken[l]; ok {
			booked = append(booked, l)
		} else {
			available = append(available, l)
		}
	}
	return available, booked
}
