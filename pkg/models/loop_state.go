package models

// LoopState is the lifecycle state of an action loop
type LoopState int

const (
	LoopIdle LoopState = iota
	LoopRunning
	LoopFinalizing
	LoopDone
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopRunning:
		return "running"
	case LoopFinalizing:
		return "finalizing"
	case LoopDone:
		return "done"
	}
	return "unknown"
}
