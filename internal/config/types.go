package config

// Config is the provisioning catalogue: everything the pipeline installs
// or configures. The catalogue is data, not architecture; stage bodies
// iterate it and feed each entry to the executor as a structured action.
type Config struct {
	PackageManager PackageManager `yaml:"package_manager"`
	Manifest       string         `yaml:"manifest"` // package manifest file, relative to $HOME
	Shell          Shell          `yaml:"shell"`
	Runtimes       []Runtime      `yaml:"runtimes"`
	Apps           []App          `yaml:"apps"`
	Settings       []Setting      `yaml:"settings"`
	Forge          Forge          `yaml:"forge"`
}

// PackageManager describes the host package manager as argument lists.
// Command is the binary probed on the search path; the argv slices are
// never joined into shell strings.
type PackageManager struct {
	Command      string   `yaml:"command"`       // e.g. brew
	Install      []string `yaml:"install"`       // bootstraps the manager itself
	Update       []string `yaml:"update"`        // refreshes the package index
	Bundle       []string `yaml:"bundle"`        // applies the manifest file (argv prefix, manifest path appended)
	Remove       []string `yaml:"remove"`        // removes one package (argv prefix, name appended)
	SelfDestruct []string `yaml:"self_destruct"` // removes the manager itself
}

// Shell describes the startup-file configuration to apply.
type Shell struct {
	Name   string   `yaml:"name"`    // zsh or bash; detected when empty
	RCFile string   `yaml:"rc_file"` // startup file name; derived from Name when empty
	Lines  []string `yaml:"lines"`   // lines appended once, under a marker comment
}

// Runtime is one language runtime installed through a version manager.
type Runtime struct {
	Language string   `yaml:"language"` // binary probed on the search path, e.g. python3
	Version  string   `yaml:"version"`
	Install  []string `yaml:"install"` // full argv, e.g. [pyenv, install, 3.12.4]
	Remove   []string `yaml:"remove"`  // full argv undoing Install
}

// App is a downloadable application: a disk image to mount and copy, or an
// archive to extract.
type App struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	DiskImage  bool   `yaml:"disk_image"`  // mount/copy/detach instead of extracting
	InstallDir string `yaml:"install_dir"` // target directory; presence of Name under it is the goal state
}

// Setting is one final system-configuration key applied with the host's
// preference tool.
type Setting struct {
	Domain string `yaml:"domain"`
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Type   string `yaml:"type"` // bool, int, float, or string
}

// Forge locates the key-registration endpoint for the optional SSH key
// upload.
type Forge struct {
	KeysURL string `yaml:"keys_url"`
}

// Defaults carries pre-seeded prompt answers loaded from the environment
// (optionally via ~/.devstation.env). Empty fields fall back to
// interactive prompting.
type Defaults struct {
	GitName  string
	GitEmail string
}
