// Package console holds the stage state machine behind the pipeline TUI.
// Stages form a strict linear progression with no skipping and no partial
// rollback; only a full reset returns to the initial state.
package console

import "fmt"

// Stage is a named state of the pipeline workflow.
type Stage int

const (
	StageUpload Stage = iota
	StageConfigure
	StageInitialize
	StageChat

	numStages
)

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "upload"
	case StageConfigure:
		return "configure"
	case StageInitialize:
		return "initialize"
	case StageChat:
		return "chat"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Stages lists all stages in workflow order.
func Stages() []Stage {
	return []Stage{StageUpload, StageConfigure, StageInitialize, StageChat}
}

// transitions maps each stage to the stage whose completion unlocks it.
// StageUpload has no predecessor and is always enabled.
var transitions = map[Stage]Stage{
	StageConfigure:  StageUpload,
	StageInitialize: StageConfigure,
	StageChat:       StageInitialize,
}
