package config

// Active color scheme for attribute resolution.
// ENUM(light, dark)
type ColorScheme int

func (c ColorScheme) Dark() bool {
	return c == ColorSchemeDark
}

// Placement of generated rules in processed documents.
// ENUM(inline, external, both)
type Placement int

func (p Placement) Inline() bool {
	return p == PlacementInline || p == PlacementBoth
}

func (p Placement) External() bool {
	return p == PlacementExternal || p == PlacementBoth
}

// What to do when the output file already exists.
// ENUM(replace, unique, fail)
type Overwrite int

// Logging verbosity.
// ENUM(none, debug, normal)
type LogLevel int

// How to treat an existing log file.
// ENUM(append, overwrite)
type LogFileMode int
