package supervisor

import "testing"

func TestFilterEnvAllowlistAndDeny(t *testing.T) {
	environ := []string{
		"HOME=/home/u",
		"PATH=/usr/bin",
		"AWS_SECRET_ACCESS_KEY=shh",
		"GITHUB_TOKEN=shh",
		"MY_API_KEY=shh",
		"RANDOM_VAR=keep-me-out", // not in allowlist
		"LANG=en_US.UTF-8",
	}
	out := FilterEnv(environ, nil)

	want := map[string]bool{"HOME=/home/u": true, "PATH=/usr/bin": true, "LANG=en_US.UTF-8": true}
	got := map[string]bool{}
	for _, kv := range out {
		got[kv] = true
	}
	for k := range want {
		if !got[k] {
			t.Errorf("expected %q to survive filtering", k)
		}
	}
	for _, kv := range out {
		if kv == "AWS_SECRET_ACCESS_KEY=shh" || kv == "GITHUB_TOKEN=shh" || kv == "MY_API_KEY=shh" || kv == "RANDOM_VAR=keep-me-out" {
			t.Errorf("expected %q to be filtered out, got it in output", kv)
		}
	}
}

func TestFilterEnvCustomAllowlist(t *testing.T) {
	environ := []string{"FOO=bar", "HOME=/home/u"}
	out := FilterEnv(environ, []string{"FOO"})
	if len(out) != 1 || out[0] != "FOO=bar" {
		t.Fatalf("expected only FOO to survive with custom allowlist, got %v", out)
	}
}

func TestDeniedPatterns(t *testing.T) {
	// denied() expects its argument already upper-cased, as FilterEnv does;
	// the "case-insensitive" part of the policy is FilterEnv's ToUpper step.
	if !denied("MY_API_KEY") {
		t.Errorf("expected _KEY suffix to be denied")
	}
	if !denied("AWS_REGION") {
		t.Errorf("expected AWS_ prefix to be denied")
	}
	if denied("TERM") {
		t.Errorf("TERM should not be denied")
	}
}
