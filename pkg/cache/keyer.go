package cache

// Keyer generates cache keys for the different artifact kinds.
type Keyer interface {
	// HTTPKey keys a cached API response.
	HTTPKey(namespace, key string) string
	// BackgroundKey keys the raw bytes of a fetched background photo.
	BackgroundKey(url string) string
	// ArtifactKey keys an encoded composite.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the options that change an encoded composite.
type ArtifactKeyOpts struct {
	HeightFraction float64 `json:"h"`
	Anchor         string  `json:"anchor"`
	Margin         float64 `json:"margin"`
	Shadow         bool    `json:"shadow"`
	Occlusion      bool    `json:"occlusion"`
	ColorMatch     bool    `json:"color_match"`
	Glow           bool    `json:"glow"`
	Format         string  `json:"format"`
	Quality        int     `json:"quality,omitempty"`
	Remover        string  `json:"remover,omitempty"`
	// Params is a hash of the depth and grade parameters.
	Params         string  `json:"params,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// BackgroundKey hashes the URL so arbitrary query strings stay key-safe.
func (DefaultKeyer) BackgroundKey(url string) string {
	return hashKey("background", url)
}

// ArtifactKey includes every option in the hash.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

// ScopedKeyer prepends a fixed prefix to every key from an inner Keyer.
// The server uses it to keep its entries apart from CLI runs sharing
// one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) BackgroundKey(url string) string {
	return k.prefix + k.inner.BackgroundKey(url)
}

func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}
