package output

import (
	"fmt"
	"io"
	"os"
)

const (
	outputPrefix = "forge_previewer_"
	githubEnv    = "GITHUB_OUTPUT"
)

// OutputRepository implements repositories.OutputRepository for GitHub Actions.
// With GITHUB_OUTPUT set, pairs are appended to that file; otherwise the
// legacy "::set-output" workflow command is printed.
type OutputRepository struct {
	stdout     io.Writer
	outputFile string
}

// NewOutputRepository creates an announcer writing to the process stdout and
// to the file named by GITHUB_OUTPUT, when set.
func NewOutputRepository() *OutputRepository {
	return NewOutputRepositoryWith(os.Stdout, os.Getenv(githubEnv))
}

// NewOutputRepositoryWith creates an announcer with explicit destinations.
func NewOutputRepositoryWith(stdout io.Writer, outputFile string) *OutputRepository {
	return &OutputRepository{stdout: stdout, outputFile: outputFile}
}

// Announce publishes key=value under the forge_previewer_ prefix.
func (o *OutputRepository) Announce(key, value string) error {
	name := outputPrefix + key

	if o.outputFile == "" {
		_, err := fmt.Fprintf(o.stdout, "::set-output name=%s::%s\n", name, value)
		return err
	}

	file, err := os.OpenFile(o.outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // path comes from the CI runner
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", githubEnv, err)
	}
	defer file.Close()

	if _, err = fmt.Fprintf(file, "%s=%s\n", name, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", githubEnv, err)
	}
	return nil
}
