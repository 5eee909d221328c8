package entities

// ResolveToken exports resolveToken for testing.
var ResolveToken = resolveToken //nolint:gochecknoglobals // test export

// WithPasswordGenerator swaps the password generator for testing.
func (it *ParameterResolver) WithPasswordGenerator(generate func(length int) (string, error)) *ParameterResolver {
	it.generatePassword = generate
	return it
}
