package manifest

// Stage is a git lifecycle stage a hook can run at.
type Stage string

const (
	StagePreCommit        Stage = "pre-commit"
	StagePrepareCommitMsg Stage = "prepare-commit-msg"
	StageCommitMsg        Stage = "commit-msg"
	StagePostCommit       Stage = "post-commit"
	StagePrePush          Stage = "pre-push"
	StagePostCheckout     Stage = "post-checkout"
	StagePostMerge        Stage = "post-merge"
	StagePreRebase        Stage = "pre-rebase"

	// StageManual never fires from git; its hooks only run via
	// explicit `hk run <id>` invocations.
	StageManual Stage = "manual"
)

// KnownStages lists all valid stages in display order.
func KnownStages() []Stage {
	return []Stage{
		StagePreCommit,
		StagePrepareCommitMsg,
		StageCommitMsg,
		StagePostCommit,
		StagePrePush,
		StagePostCheckout,
		StagePostMerge,
		StagePreRebase,
		StageManual,
	}
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	for _, known := range KnownStages() {
		if s == known {
			return true
		}
	}
	return false
}

// Installable reports whether git fires this stage, i.e. whether
// `hk install` can write a shim for it.
func (s Stage) Installable() bool {
	return s.Valid() && s != StageManual
}

// UsesCommitMsgFile reports whether git hands this stage a commit
// message file instead of a set of changed files.
func (s Stage) UsesCommitMsgFile() bool {
	return s == StageCommitMsg || s == StagePrepareCommitMsg
}

// ParseStage converts a string to a Stage, rejecting unknown names.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.Valid() {
		return "", &UnknownStageError{Name: s}
	}
	return stage, nil
}
