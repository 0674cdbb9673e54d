package keychain

// Store provides secure credential storage abstraction
type Store interface {
	Get(name string) (string, error)
	Set(name, value string) error
	Delete(name string) error
	IsAvailable() bool
}

const (
	ServiceName = "chrono"

	// TokenName holds the API bearer token
	TokenName = "api-token"

	// CacheKeyName holds the local cache encryption key
	CacheKeyName = "cache-key"
)

// NewStore returns the best available credential store implementation
func NewStore() Store {
	return newPlatformStore()
}
