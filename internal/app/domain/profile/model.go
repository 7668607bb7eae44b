package profile

// Targets are the user-configured daily goal denominators used to normalize
// raw stats into sub-scores. All components must be positive; the journal
// service rejects anything else before it reaches storage.
type Targets struct {
	Steps      int
	Calories   int
	SleepHours float64
}

// User is the owner of the session.
type User struct {
	Name      string
	AvatarURL string
}
