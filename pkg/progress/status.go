package progress

// Complete how an item's execution ended
type Complete string

const (
	CompleteSuccess Complete = "success"
	CompleteFail    Complete = "fail"
)

func (c Complete) Valid() bool {
	return c == CompleteSuccess || c == CompleteFail
}

// Status state of an item's execution
type Status string

const (
	// StatusInitialized the tracker exists, execution has not been scheduled
	StatusInitialized Status = "initialized"
	// StatusInterrupted execution was stopped before it began
	StatusInterrupted Status = "interrupted"
	// StatusExecPending execution is scheduled, waiting on predecessors
	StatusExecPending Status = "exec_pending"
	// StatusQueued execution is ready and waiting for a worker
	StatusQueued Status = "queued"
	// StatusRunning execution is making progress
	StatusRunning Status = "running"
	// StatusRunningStalled execution is running but has not reported progress for a while
	StatusRunningStalled Status = "running_stalled"
	// StatusUserPending execution waits for user input
	StatusUserPending Status = "user_pending"
	// StatusCompleteSuccess execution finished successfully
	StatusCompleteSuccess Status = "complete_success"
	// StatusCompleteFail execution finished with an error
	StatusCompleteFail Status = "complete_fail"
)

// StatusComplete returns the completed status for c
func StatusComplete(c Complete) Status {
	if c == CompleteSuccess {
		return StatusCompleteSuccess
	}
	return StatusCompleteFail
}

// Complete returns how the execution ended, if it did
func (s Status) Complete() (Complete, bool) {
	switch s {
	case StatusCompleteSuccess:
		return CompleteSuccess, true
	case StatusCompleteFail:
		return CompleteFail, true
	default:
		return "", false
	}
}

func (s Status) IsComplete() bool {
	_, ok := s.Complete()
	return ok
}

func (s Status) IsRunning() bool {
	return s == StatusRunning || s == StatusRunningStalled
}
