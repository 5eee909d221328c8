package git

// ParseRepositorySlug exports parseRepositorySlug for testing.
var ParseRepositorySlug = parseRepositorySlug //nolint:gochecknoglobals // test export

// ErrDetachedHead exports errDetachedHead for testing.
var ErrDetachedHead = errDetachedHead //nolint:gochecknoglobals // test export
