package version

// Version is set at build time, e.g.
// go build -ldflags "-X github.com/shishobooks/locallibrary/pkg/version.Version=1.0.0".
var Version = "dev"
