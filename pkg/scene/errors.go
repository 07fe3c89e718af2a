package scene

import "fmt"

// ConfigurationError reports an invalid setting found while building a
// scene. It is fatal: no frame is drawn.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)}
}

// AssetLoadError reports a mesh or texture that could not be read or decoded.
type AssetLoadError struct {
	Kind string // "mesh" or "texture"
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }
