package cache

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies an image rendered from source with opts.
	ArtifactKey(source []byte, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render inputs besides the DOT source.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine"`
	Layout string `json:"layout,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256(hash(source), opts)>".
func (DefaultKeyer) ArtifactKey(source []byte, opts ArtifactKeyOpts) string {
	return hashKey("artifact", Hash(source), opts)
}

var _ Keyer = DefaultKeyer{}
