package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo is served by /version and printed by "odrlcheck version".
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// NewVersionInfo records the running Go version alongside the build stamps.
func NewVersionInfo(version, commit, buildTime string) VersionInfo {
	return VersionInfo{Version: version, Commit: commit, BuildTime: buildTime, GoVersion: runtime.Version()}
}

// LivenessHandler always answers 200 {"status":"ok"}.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return jsonGet(func(r *http.Request) (int, any) {
		return http.StatusOK, c.CheckLiveness(r.Context())
	})
}

// ReadinessHandler answers 503 unless every registered check passes:
//
//	{"status":"degraded","checks":{"history":{"status":"unhealthy","message":"database is locked"}}}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return jsonGet(func(r *http.Request) (int, any) {
		status := c.CheckReadiness(r.Context())
		if status.Status != StatusReady {
			return http.StatusServiceUnavailable, status
		}
		return http.StatusOK, status
	})
}

func VersionHandler(info VersionInfo) http.HandlerFunc {
	return jsonGet(func(*http.Request) (int, any) { return http.StatusOK, info })
}

// jsonGet restricts fn to GET and HEAD and encodes its result as JSON. HEAD
// responses carry headers only.
func jsonGet(fn func(*http.Request) (int, any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		code, body := fn(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}
