package httpx

// Ptr returns a pointer to v. Generic convenience helper that avoids the need
// for a temporary variable when the address of a literal or computed value
// must be passed where a pointer is expected.
//
// Example:
//
//	timeout := httpx.Ptr(30 * time.Second)
func Ptr[T any](v T) *T {
	return &v
}
