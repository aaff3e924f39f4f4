package handler

import (
	"net/http"
	"runtime"
)

// Set at link time with -ldflags "-X .../handler.buildCommit=..."
var (
	buildRelease = ""
	buildCommit  = "unset"
	buildDate    = "unknown"
)

// Deployment names the collaborators a running instance was wired with
type Deployment struct {
	Service      string `json:"service"`
	Release      string `json:"release"`
	Environment  string `json:"environment"`
	Storage      string `json:"storage"`
	Randomness   string `json:"randomness"`
	Verification string `json:"verification"`
}

type versionResponse struct {
	Deployment
	Runtime string `json:"go_version"`
	Commit  string `json:"git_commit"`
	Built   string `json:"build_time"`
}

// HandleVersion reports build metadata alongside the deployment wiring.
// A release stamped at link time wins over the configured one.
func HandleVersion(d Deployment) http.HandlerFunc {
	if buildRelease != "" {
		d.Release = buildRelease
	}
	body := versionResponse{
		Deployment: d,
		Runtime:    runtime.Version(),
		Commit:     buildCommit,
		Built:      buildDate,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, body)
	}
}
