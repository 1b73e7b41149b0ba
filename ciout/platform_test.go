package ciout

import "testing"

func withEnv(t *testing.T, kv map[string]string, fn func()) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
	fn()
}

func TestDetectPlatform_GitHub(t *testing.T) {
	withEnv(t, map[string]string{"GITHUB_ACTIONS": "true"}, func() {
		if got := DetectPlatform(); got != PlatformGitHub {
			t.Errorf("expected github, got %s", got)
		}
	})
}

func TestDetectPlatform_GitLab(t *testing.T) {
	withEnv(t, map[string]string{"GITLAB_CI": "true"}, func() {
		if got := DetectPlatform(); got != PlatformGitLab {
			t.Errorf("expected gitlab, got %s", got)
		}
	})
}

func TestDetectPlatform_Azure(t *testing.T) {
	withEnv(t, map[string]string{"TF_BUILD": "True"}, func() {
		if got := DetectPlatform(); got != PlatformAzure {
			t.Errorf("expected azure, got %s", got)
		}
	})
}

func TestDetectPlatform_Jenkins(t *testing.T) {
	withEnv(t, map[string]string{"JENKINS_HOME": "/var/jenkins"}, func() {
		if got := DetectPlatform(); got != PlatformJenkins {
			t.Errorf("expected jenkins, got %s", got)
		}
	})
}

func TestDetectPlatform_CircleCI(t *testing.T) {
	withEnv(t, map[string]string{"CIRCLECI": "true"}, func() {
		if got := DetectPlatform(); got != PlatformCircleCI {
			t.Errorf("expected circleci, got %s", got)
		}
	})
}

func TestDetectPlatform_Travis(t *testing.T) {
	withEnv(t, map[string]string{"TRAVIS": "true"}, func() {
		if got := DetectPlatform(); got != PlatformTravis {
			t.Errorf("expected travis, got %s", got)
		}
	})
}

func TestDetectPlatform_Unknown(t *testing.T) {
	if got := DetectPlatform(); got != PlatformUnknown {
		t.Errorf("expected unknown with no CI env vars set, got %s", got)
	}
}

func TestDetectPlatform_GitHubTakesPrecedence(t *testing.T) {
	withEnv(t, map[string]string{"GITHUB_ACTIONS": "true", "GITLAB_CI": "true"}, func() {
		if got := DetectPlatform(); got != PlatformGitHub {
			t.Errorf("expected github to win first-match precedence, got %s", got)
		}
	})
}
