package bitbucket

// ExtractCloneLinks parses the clone links from the repository information and returns the HTTP and SSH URLs.
func ExtractCloneLinks(clones []CloneLink) (httpLink, sshLink string) {
	for _, clone := range clones {
		switch clone.Name {
		case "http":
			httpLink = clone.Href
		case "ssh":
			sshLink = clone.Href
		}
	}
	return
}

// ChangedFilePaths flattens a change list into the set of file paths it touches.
func ChangedFilePaths(changes []Change) []string {
	var paths []string
	for _, change := range changes {
		if change.Path == nil {
			continue
		}
		paths = append(paths, change.Path.ToString)
	}
	return paths
}
