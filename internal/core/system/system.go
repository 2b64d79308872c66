package system

import "time"

// Phase defines execution ordering within a single simulation tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: event buffer swap + dispatch
	PhaseUpdate                  // 1: ship motion, world mutation
	PhasePostUpdate              // 2: discovery scan
	PhasePersist                 // 3: batch save of dirty discovery records
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
