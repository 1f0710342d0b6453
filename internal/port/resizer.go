package port

// Resizer downsamples an image before embedding to bound model input
// size. Factor must be in (0, 1]; width and height are each scaled by
// it. Failures are reported, not retried.
type Resizer interface {
	Resize(src, dst string, factor float64) error
}
