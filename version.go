package transcache

// Application identity.
const (
	Name        = "transcache"
	Description = "Translation memoization cache and fetch coordinator"
	Repository  = "https://github.com/lingofyra/transcache"
	License     = "MIT"
)

// Build information, set at build time with ldflags:
//
//	go build -ldflags "-X github.com/lingofyra/transcache.Version=1.0.0 -X github.com/lingofyra/transcache.GitCommit=$(git rev-parse HEAD)"
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit, if known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
