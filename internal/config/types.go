package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfiguration = errors.New("invalid asset manager configuration")
	ErrInvalidEnumValue     = errors.New("invalid enum value")
)

// ManifestType is the shape of the manifest document.
type ManifestType int

const (
	// ManifestKeyValue is a flat object mapping source bundle filenames to
	// built filenames, e.g. {"Home.js": "Home.3f2a1c.js"}.
	ManifestKeyValue ManifestType = iota
	// ManifestVite is a Vite build manifest keyed by entry, whose values carry
	// name, file, src and css.
	ManifestVite
)

func (t ManifestType) String() string {
	switch t {
	case ManifestKeyValue:
		return "KeyValue"
	case ManifestVite:
		return "Vite"
	default:
		return fmt.Sprintf("ManifestType(%d)", int(t))
	}
}

func (t ManifestType) Valid() bool {
	return t == ManifestKeyValue || t == ManifestVite
}

func ParseManifestType(s string) (ManifestType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keyvalue", "key-value", "":
		return ManifestKeyValue, nil
	case "vite":
		return ManifestVite, nil
	}
	return ManifestKeyValue, fmt.Errorf("%w: manifest type %q", ErrInvalidEnumValue, s)
}

func (t ManifestType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnumValue, t)
	}
	return []byte(t.String()), nil
}

func (t *ManifestType) UnmarshalText(b []byte) error {
	parsed, err := ParseManifestType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FileType selects the extension appended to an extensionless bundle name.
// FileTypeNone means "not specified".
type FileType int

const (
	FileTypeNone FileType = iota
	FileTypeCSS
	FileTypeJS
)

func (t FileType) String() string {
	switch t {
	case FileTypeNone:
		return ""
	case FileTypeCSS:
		return "css"
	case FileTypeJS:
		return "js"
	default:
		return fmt.Sprintf("FileType(%d)", int(t))
	}
}

// Extension returns ".css" or ".js".
func (t FileType) Extension() (string, error) {
	switch t {
	case FileTypeCSS:
		return ".css", nil
	case FileTypeJS:
		return ".js", nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidEnumValue, t)
}

func ParseFileType(s string) (FileType, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "":
		return FileTypeNone, nil
	case "css":
		return FileTypeCSS, nil
	case "js":
		return FileTypeJS, nil
	}
	return FileTypeNone, fmt.Errorf("%w: file type %q", ErrInvalidEnumValue, s)
}

// ScriptLoad controls the async/defer attributes of a script tag.
type ScriptLoad int

const (
	ScriptLoadNormal ScriptLoad = iota
	ScriptLoadAsync
	ScriptLoadDefer
	ScriptLoadAsyncDefer
)

func (l ScriptLoad) String() string {
	switch l {
	case ScriptLoadNormal:
		return "normal"
	case ScriptLoadAsync:
		return "async"
	case ScriptLoadDefer:
		return "defer"
	case ScriptLoadAsyncDefer:
		return "async-defer"
	default:
		return fmt.Sprintf("ScriptLoad(%d)", int(l))
	}
}

func ParseScriptLoad(s string) (ScriptLoad, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ScriptLoadNormal, nil
	case "async":
		return ScriptLoadAsync, nil
	case "defer":
		return ScriptLoadDefer, nil
	case "async-defer", "asyncdefer", "async defer":
		return ScriptLoadAsyncDefer, nil
	}
	return ScriptLoadNormal, fmt.Errorf("%w: script load %q", ErrInvalidEnumValue, s)
}
