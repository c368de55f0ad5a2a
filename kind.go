package partloader

// DefaultExtension is the script extension used by the built-in kinds.
const DefaultExtension = ".js"

// Kind fixes what a Loader looks for: file extension, default directories and naming strategy.
type Kind struct {
	Name               string
	Extension          string
	ThemeFileDirectory string
	FilesDirectory     string
	Names              NameStrategy // nil means CandidateNames
}

// Built-in kinds.
var (
	FileKind = Kind{
		Name:               "file",
		Extension:          DefaultExtension,
		ThemeFileDirectory: "templates",
		FilesDirectory:     "templates",
	}
	TemplateKind = Kind{
		Name:               "template",
		Extension:          DefaultExtension,
		ThemeFileDirectory: "templates",
		FilesDirectory:     "templates",
	}
	ConfigKind = Kind{
		Name:               "config",
		Extension:          DefaultExtension,
		ThemeFileDirectory: "config",
		FilesDirectory:     "config",
	}
)

// WithExtension returns a copy of k using ext.
func (k Kind) WithExtension(ext string) Kind {
	k.Extension = normalizeExt(ext)
	return k
}
