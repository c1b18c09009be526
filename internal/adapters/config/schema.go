package config

// File is the structure of the .whence.yaml configuration file.
// Absent sections and fields keep their defaults.
type File struct {
	Log      *LogSection      `yaml:"log"`
	VCS      *VCSSection      `yaml:"vcs"`
	Metadata *MetadataSection `yaml:"metadata"`
}

// LogSection configures logging.
type LogSection struct {
	Verbose *bool `yaml:"verbose"`
	JSON    *bool `yaml:"json"`
}

// VCSSection configures the VCS prober.
type VCSSection struct {
	Backend string   `yaml:"backend"`
	Binary  string   `yaml:"binary"`
	Timeout string   `yaml:"timeout"`
	Markers []string `yaml:"markers"`
}

// MetadataSection configures the distribution metadata prober.
type MetadataSection struct {
	Backend     string   `yaml:"backend"`
	Binary      string   `yaml:"binary"`
	Timeout     string   `yaml:"timeout"`
	SearchPaths []string `yaml:"search_paths"`
}
