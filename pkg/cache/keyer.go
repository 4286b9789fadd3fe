package cache

// Keyer builds cache keys. Keys are "<type>:<sha256>" where the hash covers
// the input hash and every option that changes the cached bytes.
type Keyer interface {
	// PlacementKey is the key for a diagram with computed node positions.
	PlacementKey(diagramHash string, engine string) string

	// LayoutKey is the key for a routed layout.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key for a rendered output file.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the routing options that affect a layout.
type LayoutKeyOpts struct {
	Engine  string `json:"engine,omitempty"`
	Samples int    `json:"samples,omitempty"`
}

// ArtifactKeyOpts are the render options that affect an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
	Labels     bool    `json:"labels,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PlacementKey(diagramHash, engine string) string {
	return hashKey(KeyTypePlacement, diagramHash, engine)
}

func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, diagramHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}
