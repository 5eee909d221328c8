package controllers

// LoadDeploymentScript exports loadDeploymentScript for testing.
var LoadDeploymentScript = loadDeploymentScript //nolint:gochecknoglobals // test export

// LoadStagingEnv exports loadStagingEnv for testing.
var LoadStagingEnv = loadStagingEnv //nolint:gochecknoglobals // test export

// BuildDeployInput exports buildDeployInput for testing.
var BuildDeployInput = buildDeployInput //nolint:gochecknoglobals // test export
