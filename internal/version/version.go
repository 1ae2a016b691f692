package version

// Version is the current version of the hftsim engine.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/argus-quant/hftsim/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// GetVersion returns the current engine version.
func GetVersion() string {
	return Version
}
