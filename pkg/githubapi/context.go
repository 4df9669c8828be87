package githubapi

import "fmt"

// PRContext identifies the pull request a call operates on. It is passed
// explicitly to every client method rather than held as client state, so
// one client can serve several pull requests.
type PRContext struct {
	Owner  string
	Repo   string
	Number int
}

func (p PRContext) String() string {
	return fmt.Sprintf("%s/%s#%d", p.Owner, p.Repo, p.Number)
}

// Validate checks that the context identifies a concrete pull request.
func (p PRContext) Validate() error {
	if p.Owner == "" || p.Repo == "" {
		return fmt.Errorf("repository owner and name are required")
	}
	if p.Number <= 0 {
		return fmt.Errorf("pull request number is required")
	}
	return nil
}
