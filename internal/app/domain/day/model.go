package day

// TaskType tells which form of evidence completes a task.
type TaskType string

const (
	TaskWriting       TaskType = "writing"
	TaskFoodImage     TaskType = "food_image"
	TaskActivityImage TaskType = "activity_image"
)

// ParseTaskType decodes a task type supplied by an external collaborator.
// Unrecognized values intentionally fall back to TaskWriting rather than
// failing; collaborators occasionally return free-form strings.
func ParseTaskType(raw string) TaskType {
	switch TaskType(raw) {
	case TaskWriting, TaskFoodImage, TaskActivityImage:
		return TaskType(raw)
	default:
		return TaskWriting
	}
}

// Stats holds one day's raw activity numbers.
type Stats struct {
	Steps      int
	Calories   int
	SleepHours float64
}

// Task is a single wellness task attached to a day. Completed transitions to
// true exactly once; UserInput and Feedback are set only on completion.
type Task struct {
	ID        int64
	Text      string
	Type      TaskType
	Completed bool
	UserInput string
	Feedback  string
}

// TaskInput is the collaborator-facing shape of a task before the store
// assigns an identifier.
type TaskInput struct {
	Text string
	Type TaskType
}

// Record bundles the stats and tasks for one calendar date. Date is ISO
// YYYY-MM-DD, which also gives chronological ordering when sorted as a string.
type Record struct {
	Date  string
	Stats Stats
	Tasks []Task
}

// CompletedTasks counts the completed tasks on the record.
func (r Record) CompletedTasks() int {
	n := 0
	for _, t := range r.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
