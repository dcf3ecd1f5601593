package bitbucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCloneLinks(t *testing.T) {
	httpLink, sshLink := ExtractCloneLinks([]CloneLink{
		{Name: "http", Href: "https://bitbucket.example.com/scm/team/repo.git"},
		{Name: "ssh", Href: "ssh://git@bitbucket.example.com:7989/team/repo.git"},
	})
	assert.Equal(t, "https://bitbucket.example.com/scm/team/repo.git", httpLink)
	assert.Equal(t, "ssh://git@bitbucket.example.com:7989/team/repo.git", sshLink)
}

func TestChangedFilePaths(t *testing.T) {
	changes := []Change{
		{Type: "MODIFY", Path: &File{ToString: "src/main.go"}},
		{Type: "DELETE", Path: nil},
		{Type: "ADD", Path: &File{ToString: "docs/README.md"}},
	}
	assert.Equal(t, []string{"src/main.go", "docs/README.md"}, ChangedFilePaths(changes))
}
