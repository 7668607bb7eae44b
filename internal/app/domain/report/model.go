package report

// DaySummary is one chartable row derived from a day record.
type DaySummary struct {
	Date           string
	Day            string // short weekday label, e.g. "Mon"
	Steps          int
	Calories       int
	SleepHours     float64
	TasksCompleted int
	TasksTotal     int
	AuraScore      int
}

// AISummary is the model-written narrative for a report period.
type AISummary struct {
	Summary string
	Score   int
}

// Overview reduces a period of day summaries for the report header.
type Overview struct {
	AvgSteps           float64
	AvgCalories        float64
	TaskCompletionRate float64 // percent; 100 when no tasks exist in the period
}
