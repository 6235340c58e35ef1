// Package mapmodel defines the governance artifacts and relationships that
// make up a management system map.
package mapmodel

// Position is a 2D canvas coordinate
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Link points at the underlying document of a node
type Link struct {
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	FilePath string `json:"filePath,omitempty" yaml:"filePath,omitempty"`
}

// Node is a governance artifact on the map
type Node struct {
	ID             string    `json:"id" yaml:"id" validate:"required,max=200"`
	Type           DocType   `json:"type" yaml:"type" validate:"required"`
	Title          string    `json:"title" yaml:"title" validate:"required,max=500"`
	Code           string    `json:"code,omitempty" yaml:"code,omitempty" validate:"max=100"`
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"`
	Owner          string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	Version        string    `json:"version,omitempty" yaml:"version,omitempty"`
	Status         Status    `json:"status,omitempty" yaml:"status,omitempty"`
	NextReviewDate string    `json:"nextReviewDate,omitempty" yaml:"nextReviewDate,omitempty"`
	Location       []string  `json:"location,omitempty" yaml:"location,omitempty"`
	ISOClauses     []string  `json:"isoClauses,omitempty" yaml:"isoClauses,omitempty"`
	Tags           []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Roles          []string  `json:"roles,omitempty" yaml:"roles,omitempty"`
	Inputs         []string  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs        []string  `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Position       *Position `json:"position,omitempty" yaml:"position,omitempty"`
	Link           *Link     `json:"link,omitempty" yaml:"link,omitempty"`
}

// Edge is a directed relationship between two nodes
type Edge struct {
	ID           string       `json:"id" yaml:"id" validate:"max=200"`
	Source       string       `json:"source" yaml:"source" validate:"required"`
	Target       string       `json:"target" yaml:"target" validate:"required"`
	Relationship Relationship `json:"relationship" yaml:"relationship"`
	Label        string       `json:"label,omitempty" yaml:"label,omitempty"`
	// Critical is nil when the document did not say; nil counts as critical.
	Critical *bool `json:"critical,omitempty" yaml:"critical,omitempty"`
}

// IsCritical reports whether the edge is critical. Only an explicit false
// makes an edge non-critical.
func (e Edge) IsCritical() bool {
	return e.Critical == nil || *e.Critical
}

// IsDependency reports whether the edge is the outputToInput kind
func (e Edge) IsDependency() bool {
	return e.Relationship == RelOutputToInput
}

// Bool returns a pointer to b, for building edges with an explicit Critical flag
func Bool(b bool) *bool {
	return &b
}

// Metadata describes a map document
type Metadata struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	GeneratedAt string `json:"generatedAt" yaml:"generatedAt"`
}

// Document is a complete map as supplied by an external document source
type Document struct {
	Metadata          Metadata `json:"metadata" yaml:"metadata"`
	Nodes             []Node   `json:"nodes" yaml:"nodes"`
	Edges             []Edge   `json:"edges" yaml:"edges"`
	RolesCatalog      []string `json:"rolesCatalog,omitempty" yaml:"rolesCatalog,omitempty"`
	LocationsCatalog  []string `json:"locationsCatalog,omitempty" yaml:"locationsCatalog,omitempty"`
	ActivitiesCatalog []string `json:"activitiesCatalog,omitempty" yaml:"activitiesCatalog,omitempty"`
}
