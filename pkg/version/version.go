// Package version holds the build version, set at link time:
//
//	go build -ldflags "-X github.com/cloudposse/buildcheck/pkg/version.Version=1.2.3"
package version

var Version = "0.0.0-dev"
