package github

// Entry kinds reported by the contents API.
const (
	EntryFile = "file"
	EntryDir  = "dir"
)

// Repo is the repository metadata consumed by the scan tabulation.
type Repo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	PushedAt      string `json:"pushed_at"`
	Stars         int    `json:"stargazers_count"`
	Watchers      int    `json:"watchers_count"`
	Forks         int    `json:"forks_count"`
	Language      string `json:"language"`
	Private       bool   `json:"private"`
	Size          int    `json:"size"`
	OpenIssues    int    `json:"open_issues_count"`
	DefaultBranch string `json:"default_branch"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// Commit identifies the most recent commit of a repository.
type Commit struct {
	SHA    string `json:"sha"`
	Author string `json:"author"`
	Date   string `json:"date"`
}

// TreeEntry is one row of a directory listing. Entries are consumed in the
// order the server returned them; the client never re-sorts.
type TreeEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// searchPage is one page of a repository search response.
type searchPage struct {
	TotalCount int    `json:"total_count"`
	Items      []Repo `json:"items"`
}

// commitResponse is the API shape of one commit in a listing.
type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// contentItem is the API shape of a contents entry. Directory listings
// return a list of these; a file path returns a single object with the
// base64 payload filled in.
type contentItem struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     int    `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}
