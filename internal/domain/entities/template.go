package entities

import "strings"

const (
	placeholderDomain = "{domain}"
	placeholderBranch = "{branch}"
)

// ExpandTemplate replaces the {domain} and {branch} placeholders in template
// with the resolved values. Replacement is literal and single-pass: values
// containing placeholders are not expanded again, and unknown placeholders
// are kept verbatim.
func ExpandTemplate(template string, params DeploymentParameters) string {
	replacer := strings.NewReplacer(
		placeholderDomain, params.Domain,
		placeholderBranch, params.Branch,
	)
	return replacer.Replace(template)
}
