package redis

const (
	// KeyPrefix namespaces every key written by the backend.
	KeyPrefix = "solvelog:"
)

// DocumentKey returns the Redis key holding the document stored under key.
func DocumentKey(key string) string {
	return KeyPrefix + key
}
