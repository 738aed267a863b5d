package codetiming

// Release version of the library.
var version = "1.4.0"

// Version returns the library version string.
func Version() string {
	return version
}
