package models

// TaskStatus is the progress state of a task
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskWaiting    TaskStatus = "waiting"
	TaskComplete   TaskStatus = "complete"
)

var taskStatusLabels = map[TaskStatus]string{
	TaskNotStarted: "Not Started",
	TaskInProgress: "In Progress",
	TaskWaiting:    "Waiting",
	TaskComplete:   "Complete",
}

func (s TaskStatus) Label() string {
	if label, ok := taskStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s TaskStatus) Valid() bool {
	_, ok := taskStatusLabels[s]
	return ok
}

// Priority of a task
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityLabels = map[Priority]string{
	PriorityCritical: "Critical",
	PriorityHigh:     "High",
	PriorityMedium:   "Medium",
	PriorityLow:      "Low",
}

func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// TaskType distinguishes actionable tasks from reference items
type TaskType string

const (
	TaskOneTime   TaskType = "one_time"
	TaskReference TaskType = "reference"
)

func (t TaskType) Valid() bool {
	return t == TaskOneTime || t == TaskReference
}

// Task is a to-do item optionally linked to a stakeholder or legal matter
type Task struct {
	ID                   int64           `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	DueDate              *Date           `json:"due_date"`
	ReminderDate         *Timestamp      `json:"reminder_date"`
	Status               TaskStatus      `json:"status"`
	Priority             Priority        `json:"priority"`
	TaskType             TaskType        `json:"task_type"`
	RelatedStakeholderID *int64          `json:"related_stakeholder_id"`
	RelatedLegalMatterID *int64          `json:"related_legal_matter_id"`
	RelatedPropertyID    *int64          `json:"related_property_id"`
	CreatedAt            Timestamp       `json:"created_at"`
	UpdatedAt            Timestamp       `json:"updated_at"`
	CompletedAt          *Timestamp      `json:"completed_at"`
	Stakeholder          *StakeholderRef `json:"stakeholder,omitempty"`
}

// IsComplete reports whether the task is done
func (t Task) IsComplete() bool {
	return t.Status == TaskComplete
}

// TaskFilter narrows a task listing. Zero values do not filter.
type TaskFilter struct {
	Query    string
	Statuses []TaskStatus
	Priority Priority
	From     *Date
	To       *Date
	Sort     string
	Desc     bool
	Limit    int
	Offset   int
}

// FollowUp is an outreach attempt awaiting a response
type FollowUp struct {
	ID               int64          `json:"id"`
	TaskID           int64          `json:"task_id"`
	StakeholderID    int64          `json:"stakeholder_id"`
	OutreachDate     Timestamp      `json:"outreach_date"`
	Method           ContactMethod  `json:"method"`
	ResponseReceived bool           `json:"response_received"`
	ResponseDate     *Timestamp     `json:"response_date"`
	NotesText        string         `json:"notes_text"`
	TaskTitle        string         `json:"task_title"`
	Stakeholder      StakeholderRef `json:"stakeholder"`
}
