package logx

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"DBG":     LevelDebug,
		"info":    LevelInfo,
		"":        LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"err":     LevelError,
		"bogus":   LevelInfo,
	}

	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestKVPairs(t *testing.T) {
	got := kvPairs("a", 1, "b", "two")
	if len(got) != 2 || got[0] != "a=1" || got[1] != "b=two" {
		t.Errorf("kvPairs = %v", got)
	}

	// odd argument count marks the dangling key instead of panicking
	got = kvPairs("only-key")
	if len(got) != 1 || got[0] != "only-key=(missing)" {
		t.Errorf("kvPairs odd = %v", got)
	}
}

func TestWithKeepsScope(t *testing.T) {
	base := NewWithLevel(LevelError).(*simpleLogger)
	scoped := base.With("component", "test").(*simpleLogger)

	if len(scoped.scope) != 1 || scoped.scope[0] != "component=test" {
		t.Errorf("scope = %v", scoped.scope)
	}
	if len(base.scope) != 0 {
		t.Error("With must not mutate the parent logger")
	}

	nested := scoped.With("step", "2").(*simpleLogger)
	if len(nested.scope) != 2 {
		t.Errorf("nested scope = %v", nested.scope)
	}
}

func TestErrNilIsNoop(t *testing.T) {
	// must not panic and must not log
	NewSilent().Err(nil)
}
