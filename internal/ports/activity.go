package ports

// ActivityLogPort receives the human-readable run log.
type ActivityLogPort interface {
	PrintData(line string)
	LogInformation(message string)
	LogWarning(message string)
	LogError(message string)
}
