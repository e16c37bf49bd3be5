package database

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)
