package config

// ProjectConfigFile is loaded from the working directory when no explicit
// config file is given.
const ProjectConfigFile = ".gnosisvpn-release.yml"

// ProjectConfigPath returns the path to the project-level config file.
func ProjectConfigPath() string {
	return ProjectConfigFile
}
