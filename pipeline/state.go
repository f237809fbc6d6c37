package pipeline

// State is a step of a finishing run. Runs move through the states in order
// and never return to an earlier one.
type State int

const (
	StateInit State = iota
	StateMap
	StateFilterReads
	StateAssemble
	StateFilterAssembly
	StateMerge
	StateClassify
	StateClean
	StateFixStart
	StateSummarize
	StateDone
)

var stateNames = [...]string{
	StateInit:           "INIT",
	StateMap:            "MAP",
	StateFilterReads:    "FILTER_READS",
	StateAssemble:       "ASSEMBLE",
	StateFilterAssembly: "FILTER_ASSEMBLY_BY_CONTIGS",
	StateMerge:          "MERGE",
	StateClassify:       "CLASSIFY",
	StateClean:          "CLEAN",
	StateFixStart:       "FIXSTART",
	StateSummarize:      "SUMMARIZE",
	StateDone:           "DONE",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// States returns every state in run order.
func States() []State {
	out := make([]State, 0, len(stateNames))
	for s := StateInit; s <= StateDone; s++ {
		out = append(out, s)
	}
	return out
}
