package raw

import "testing"

func TestConfGet(t *testing.T) {
	t.Setenv("WDL_LOG_LEVEL", " info ")
	t.Setenv("LOG_FORMAT", " json ")

	lc := New().Prefix("WDL_").Or("").Prefix("LOG_")

	tests := []struct {
		name string
		key  string
		def  string
		want string
	}{
		{name: "primary prefix hit", key: "LEVEL", def: "x", want: "info"},
		{name: "fallback prefix hit", key: "FORMAT", def: "x", want: "json"},
		{name: "missing returns default", key: "MISSING", def: "defv", want: "defv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lc.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestPrimaryWinsOverFallback(t *testing.T) {
	t.Setenv("WDL_LOG_LEVEL", "warn")
	t.Setenv("LOG_LEVEL", "trace")
	lc := New().Prefix("WDL_").Or("").Prefix("LOG_")
	if got := lc.Get("LEVEL", ""); got != "warn" {
		t.Fatalf("Get = %q, want warn", got)
	}
}

func TestConfGetBool(t *testing.T) {
	c := New().Prefix("B_")
	t.Setenv("B_T1", "true")
	t.Setenv("B_T2", "1")
	t.Setenv("B_T3", "YES")
	t.Setenv("B_T4", " on ")
	t.Setenv("B_F1", "false")
	t.Setenv("B_F2", "nah")

	for _, k := range []string{"T1", "T2", "T3", "T4"} {
		if !c.GetBool(k, false) {
			t.Fatalf("GetBool(%s) want true", k)
		}
	}
	for _, k := range []string{"F1", "F2"} {
		if c.GetBool(k, true) {
			t.Fatalf("GetBool(%s) want false", k)
		}
	}
	if !c.GetBool("MISSING", true) {
		t.Fatalf("GetBool missing should return default")
	}
}

func TestConfGetInt(t *testing.T) {
	c := New().Prefix("I_")
	t.Setenv("I_OK", " 42 ")
	t.Setenv("I_NEG", "-1")
	t.Setenv("I_BAD", "4x")

	if got := c.GetInt("OK", 0); got != 42 {
		t.Fatalf("GetInt ok = %d", got)
	}
	if got := c.GetInt("NEG", 7); got != 7 {
		t.Fatalf("GetInt negative -> default, got %d", got)
	}
	if got := c.GetInt("BAD", 7); got != 7 {
		t.Fatalf("GetInt bad -> default, got %d", got)
	}
	if got := c.GetInt("MISSING", 5); got != 5 {
		t.Fatalf("GetInt missing -> default, got %d", got)
	}
}
