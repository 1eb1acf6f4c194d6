package domain

// ReviewRequest is the single outbound notification sent when a worker goes
// idle on an in-progress task. The receiver (an external reviewer service)
// returns success or failure only; the monitor retries on later ticks while
// the worker stays idle and unnotified.
// Fields are ordered to minimize memory padding.
type ReviewRequest struct {
	TaskID       string `json:"taskId"`
	TaskTitle    string `json:"taskTitle"`
	Description  string `json:"description,omitempty"`
	WorkerID     string `json:"workerId"`
	WorkerName   string `json:"workerName,omitempty"`
	WorktreePath string `json:"worktreePath,omitempty"`
	TargetBranch string `json:"targetBranch,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	SessionKey   string `json:"sessionKey"` // Groups notifications per project
}

// MergeInstructions maps a task's merge strategy to the instruction text
// carried in the review notification. The coordinator's control flow never
// reads this; only the notification does.
func MergeInstructions(strategy string) string {
	switch strategy {
	case "squash":
		return "Squash the branch into a single commit before merging."
	case "rebase":
		return "Rebase the branch onto the target before merging."
	case "merge":
		return "Merge the branch with a merge commit."
	default:
		return ""
	}
}
