package types

import "path/filepath"

// Config selects the store backend and where it keeps its file.
type Config struct {
	Backend  string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	FileName string `json:"file" yaml:"file,omitempty" mapstructure:"file"`
}

// Supported backend names.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Default file names per backend.
const (
	DefaultJSONLFile  = "address_book.jsonl"
	DefaultSQLiteFile = "address_book.db"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSONL:  true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.FileName != "" && filepath.Base(c.FileName) != c.FileName {
		return ErrFileNameInvalid
	}
	return nil
}

// Path returns the persisted file location: DataDir joined with FileName, or
// with the backend's default file name when FileName is empty. An empty
// DataDir means the current directory.
func (c Config) Path() string {
	name := c.FileName
	if name == "" {
		switch c.Backend {
		case BackendSQLite:
			name = DefaultSQLiteFile
		default:
			name = DefaultJSONLFile
		}
	}
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}
