package sonar

// componentIndex maps component keys to their records for path resolution.
type componentIndex map[string]Component

// buildComponentIndex indexes all components that carry a path. Records
// without one are aggregation nodes (whole-project entries and the like)
// and stay out of the index. Module references are not checked here; that
// happens at resolution time.
func buildComponentIndex(components []Component) componentIndex {
	index := make(componentIndex, len(components))
	for _, component := range components {
		if component.Path == "" {
			continue
		}
		index[component.Key] = component
	}
	return index
}

// resolvePath returns the file path for a component key, prefixing the
// parent module's path when the component has one. Module chains are one
// level deep.
func (idx componentIndex) resolvePath(key string) (string, error) {
	component, ok := idx[key]
	if !ok {
		return "", &ResolutionError{Key: key}
	}
	if component.ModuleKey == "" {
		return component.Path, nil
	}
	module, ok := idx[component.ModuleKey]
	if !ok {
		return "", &ResolutionError{Key: component.ModuleKey, Module: true}
	}
	return module.Path + "/" + component.Path, nil
}
