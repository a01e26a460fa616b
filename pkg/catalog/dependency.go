package catalog

import "strings"

// DependencyKind distinguishes libraries from plugins.
type DependencyKind int

const (
	Library DependencyKind = iota
	Plugin
)

func (k DependencyKind) String() string {
	if k == Plugin {
		return "plugin"
	}
	return "library"
}

// PluginMarkerSuffix is appended to a plugin id to form the artifact id of
// its marker in a Maven repository.
const PluginMarkerSuffix = ".gradle.plugin"

// Dependency is a library or plugin declared in a catalog.
type Dependency struct {
	Kind DependencyKind

	// Library coordinates. Either may be empty in a malformed entry.
	GroupID    string
	ArtifactID string

	// Plugin id.
	ID string

	Version VersionRef
}

// NewLibrary returns a library dependency.
func NewLibrary(group, name string, v VersionRef) Dependency {
	return Dependency{Kind: Library, GroupID: group, ArtifactID: name, Version: v}
}

// NewPlugin returns a plugin dependency.
func NewPlugin(id string, v VersionRef) Dependency {
	return Dependency{Kind: Plugin, ID: id, Version: v}
}

// ModuleID identifies the dependency: "group:name" for libraries and the
// plugin id for plugins.
func (d Dependency) ModuleID() string {
	if d.Kind == Plugin {
		return d.ID
	}
	return d.GroupID + ":" + d.ArtifactID
}

// Group is the Maven group the dependency is published under. Plugins are
// looked up through their marker artifact, whose group is the plugin id.
func (d Dependency) Group() string {
	if d.Kind == Plugin {
		return d.ID
	}
	return d.GroupID
}

// Name is the Maven artifact id the dependency is published under.
func (d Dependency) Name() string {
	if d.Kind == Plugin {
		return d.ID + PluginMarkerSuffix
	}
	return d.ArtifactID
}

// Resolvable reports whether the dependency has enough coordinates to be
// looked up in a repository.
func (d Dependency) Resolvable() bool {
	if d.Kind == Plugin {
		return d.ID != ""
	}
	return d.GroupID != "" && d.ArtifactID != ""
}

// parseModule splits "group:name" or "group:name:version".
func parseModule(s string) (group, name, ver string, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	switch len(parts) {
	case 2:
		return parts[0], parts[1], "", parts[0] != "" && parts[1] != ""
	case 3:
		return parts[0], parts[1], parts[2], parts[0] != "" && parts[1] != ""
	default:
		return "", "", "", false
	}
}
