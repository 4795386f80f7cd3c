package domain

// Requirement is one line of a dependency manifest: a package name plus a
// version constraint expression (e.g. "==1.0.0", ">=2.1,<3").
// An empty constraint means any version.
type Requirement struct {
	Name       string `json:"name" yaml:"name"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
}

// Manifest is a parsed dependency manifest. Requirement names are unique;
// order is preserved from the source file.
type Manifest struct {
	Requirements []Requirement `json:"requirements" yaml:"requirements"`
}

// Pin is a requirement resolved to one concrete version.
type Pin struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Lock is a fully resolved manifest. Every requirement of the manifest it was
// resolved from is present exactly once, pinned to a concrete version that
// satisfies its constraint.
type Lock struct {
	Pins []Pin `json:"pins" yaml:"pins"`
}
