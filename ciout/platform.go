package ciout

import "os"

// Platform is the closed set of CI platforms Warden can detect.
type Platform string

const (
	PlatformGitHub    Platform = "github"
	PlatformGitLab    Platform = "gitlab"
	PlatformAzure     Platform = "azure"
	PlatformJenkins   Platform = "jenkins"
	PlatformCircleCI  Platform = "circleci"
	PlatformTravis    Platform = "travis"
	PlatformUnknown   Platform = "unknown"
)

// DetectPlatform inspects well-known CI environment variables, first match
// wins, in the order documented in §4.7.
func DetectPlatform() Platform {
	switch {
	case os.Getenv("GITHUB_ACTIONS") == "true":
		return PlatformGitHub
	case os.Getenv("GITLAB_CI") == "true":
		return PlatformGitLab
	case os.Getenv("TF_BUILD") == "True":
		return PlatformAzure
	case os.Getenv("JENKINS_HOME") != "":
		return PlatformJenkins
	case os.Getenv("CIRCLECI") == "true":
		return PlatformCircleCI
	case os.Getenv("TRAVIS") == "true":
		return PlatformTravis
	default:
		return PlatformUnknown
	}
}
