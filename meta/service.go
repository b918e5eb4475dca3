package meta

import "sync"

var (
	serviceName    string    //nolint:gochecknoglobals // read by logger and tracing
	serviceVersion string    //nolint:gochecknoglobals // read by logger and tracing
	serviceOnce    sync.Once //nolint:gochecknoglobals // first call wins
)

// SetServiceInfo sets the global service name and version once at start-up.
func SetServiceInfo(name, version string) {
	serviceOnce.Do(func() {
		serviceName = name
		serviceVersion = version
	})
}

// GetServiceName returns the global service name.
func GetServiceName() string { return serviceName }

// GetServiceVersion returns the global service version.
func GetServiceVersion() string { return serviceVersion }
