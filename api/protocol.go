package api

const taskBodyMaxSize = 64 * 1024 // 64 KiB

// GET / response body
type messageResponse struct {
	Message string `json:"message"`
}

// POST /api/tasks response body
type createTaskResponse struct {
	ID string `json:"id"`
}

// DELETE /api/tasks/:id response body
type deleteTaskResponse struct {
	Status string `json:"status"`
}

// GET /test response body. Every field is best-effort; the endpoint never
// fails.
type diagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}
