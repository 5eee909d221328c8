package entities

// Server is the remote machine every managed resource is scoped to.
type Server struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
}

// Site is one deployed web application instance, keyed by its domain.
type Site struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Directory  string `json:"directory"`
	Wildcards  bool   `json:"wildcards"`
	Status     string `json:"status"`
	Repository string `json:"repository"`
	PHPVersion string `json:"php_version"`
	Username   string `json:"username"`
}

// Database is a server database, keyed by its name.
type Database struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Job is a scheduled server job, keyed by its exact command.
type Job struct {
	ID        int64  `json:"id"`
	Command   string `json:"command"`
	User      string `json:"user"`
	Frequency string `json:"frequency"`
}

// SiteInput describes a site to be created.
type SiteInput struct {
	Domain        string `json:"domain"`
	ProjectType   string `json:"project_type"`
	PHPVersion    string `json:"php_version"`
	Directory     string `json:"directory"`
	Wildcards     bool   `json:"wildcards"`
	Isolation     bool   `json:"isolation,omitempty"`
	Username      string `json:"username,omitempty"`
	NginxTemplate string `json:"nginx_template,omitempty"`
}

// RepositoryInput describes the git repository installed on a new site.
type RepositoryInput struct {
	Provider   string `json:"provider"`
	Repository string `json:"repository"`
	Branch     string `json:"branch"`
	Composer   bool   `json:"composer"`
}

// DNSProvider carries the credentials used for DNS-01 certificate challenges.
type DNSProvider struct {
	Type          string `json:"type"`
	Route53Key    string `json:"route53_key,omitempty"`
	Route53Secret string `json:"route53_secret,omitempty"`
}

// CertificateInput requests a Let's Encrypt certificate.
type CertificateInput struct {
	Domains     []string     `json:"domains"`
	DNSProvider *DNSProvider `json:"dns_provider,omitempty"`
}

// DatabaseInput describes a database to be created.
type DatabaseInput struct {
	Name     string `json:"name"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// JobInput describes a scheduled job to be created.
type JobInput struct {
	Command   string `json:"command"`
	Frequency string `json:"frequency"`
	User      string `json:"user"`
}
