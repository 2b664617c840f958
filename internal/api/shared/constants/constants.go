package constants

const (
	SERVICE_NAME = "habitat-tracker-api"

	// Long polling on GET /sessions/:id?wait=<seconds>
	MAX_WAIT_SECONDS = 30
)
