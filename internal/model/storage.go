package model

// Storage is persistent client-side key/value state: the session token and
// UI preferences live here.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
