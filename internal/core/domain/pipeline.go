package domain

// Status is one named stage of a pipeline.
type Status struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Pipeline is a named workflow with its list of stages, as served by the
// pipeline/status directory.
type Pipeline struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Statuses []Status `json:"statuses"`
}
