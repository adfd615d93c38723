package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/mangagraph/errors"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Shell bridge protocol. Clients announce their protocol version in the
// hello message; the server accepts any version satisfying ProtocolConstraint.
const (
	ProtocolVersion    = "1.1.0"
	ProtocolConstraint = ">= 1.0.0, < 2.0.0"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	Protocol   string `json:"protocol"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		Protocol:   ProtocolVersion,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("mangagraph %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("mangagraph dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// CheckProtocol reports whether a client protocol version is compatible
func CheckProtocol(clientVersion string) error {
	v, err := semver.NewVersion(clientVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid protocol version %q", clientVersion)
	}
	constraint, err := semver.NewConstraint(ProtocolConstraint)
	if err != nil {
		return errors.Wrap(err, "invalid protocol constraint")
	}
	if !constraint.Check(v) {
		return errors.WithHintf(
			errors.Newf("protocol %s is not supported", v),
			"this server speaks protocol %s (accepts %s)", ProtocolVersion, ProtocolConstraint,
		)
	}
	return nil
}
