// pkg/registry/schema.go
package registry

// ActivityRegistry is the deployable set of dialogue activities. The
// file version and lastUpdated stamp travel with the document so
// deployments can tell which catalog generation they run.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one dialogue task type: its identity, the JSON
// Schemas of the job variables it consumes and produces, and the
// operational metadata catalog-lint checks before deploy.
type Activity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TaskType    string `json:"taskType"`

	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`

	// ErrorCodes lists the result codes the activity may complete with;
	// Retries applies only to infrastructure failures.
	ErrorCodes []string `json:"errorCodes"`
	Timeout    string   `json:"timeout"`
	Retries    int      `json:"retries"`

	Workflows []string `json:"workflows"`
	Tags      []string `json:"tags"`
}
