package repositories

// OutputRepository publishes machine-parsable key/value pairs for the CI
// provider running the deploy.
type OutputRepository interface {
	Announce(key, value string) error
}
