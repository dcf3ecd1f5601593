package shared

// RepositoryParams identifies a repository and, when relevant, a pull request
// inside it. It is the common addressing block for all VCS plugin requests.
type RepositoryParams struct {
	Domain        string `json:"domain"`
	Namespace     string `json:"namespace"`
	Repository    string `json:"repository"`
	PullRequestID string `json:"pull_request_id,omitempty"`
	HTTPLink      string `json:"http_link,omitempty"`
	SSHLink       string `json:"ssh_link,omitempty"`
}

// User holds minimal account information returned by VCS plugins.
type User struct {
	UserName string `json:"user_name"`
}

// Reference describes one side of a pull request.
type Reference struct {
	ID           string `json:"id"`
	DisplayID    string `json:"display_id"`
	LatestCommit string `json:"latest_commit"`
}

// PRParams holds normalized pull request information shared by all VCS plugins.
type PRParams struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	Author      User      `json:"author"`
	SelfLink    string    `json:"self_link"`
	Source      Reference `json:"source"`
	Destination Reference `json:"destination"`
	CreatedDate int64     `json:"created_date"`
	UpdatedDate int64     `json:"updated_date"`
}

// Comment is a single pull request comment. Path and Line are set for inline
// comments anchored to a changed file; a zero Line marks a general comment.
type Comment struct {
	ID      int    `json:"id,omitempty"`
	Body    string `json:"body"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	EndLine int    `json:"end_line,omitempty"`
}

// CommentOutcome records what happened to one comment during posting.
type CommentOutcome struct {
	Comment Comment `json:"comment"`
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
}

// ReviewReport summarizes the result of publishing a batch of review comments.
type ReviewReport struct {
	Posted   int              `json:"posted"`
	Skipped  int              `json:"skipped"`
	Failed   int              `json:"failed"`
	Outcomes []CommentOutcome `json:"outcomes,omitempty"`
}

// GenericResult carries the arguments and outcome of a single plugin launch.
type GenericResult struct {
	Args    interface{} `json:"args"`
	Result  interface{} `json:"result"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// GenericLaunchesResult aggregates launch results across plugin invocations.
type GenericLaunchesResult struct {
	Launches []GenericResult `json:"launches"`
}

// Versions describes the core binary build information.
type Versions struct {
	Core      string `json:"core"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time"`
}

// PluginMeta describes an installed plugin binary.
type PluginMeta struct {
	Version    string `json:"version"`
	PluginType string `json:"plugin_type"`
}
