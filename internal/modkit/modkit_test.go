package modkit

import (
	"testing"

	"wdlabels/internal/platform/config"
)

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()
	b := Build()
	if b.Name != "" || b.Ports != nil {
		t.Fatalf("unexpected defaults: %+v", b)
	}
	if _, ok := Injected[string](b); ok {
		t.Fatalf("nothing injected, got ok")
	}
}

func TestBuild_WithOptions(t *testing.T) {
	t.Parallel()
	type ports struct{ X int }
	b := Build(WithName("extract"), nil, WithPorts(ports{X: 7}))
	if b.Name != "extract" {
		t.Fatalf("Name = %q", b.Name)
	}
	got, ok := Injected[ports](b)
	if !ok || got.X != 7 {
		t.Fatalf("Injected = %+v, %v", got, ok)
	}
	if _, ok := Injected[int](b); ok {
		t.Fatalf("wrong type should not match")
	}
}

func TestDeps_ZeroOK(t *testing.T) {
	t.Parallel()
	var d Deps
	if !d.ZeroOK() {
		t.Fatal("zero-value Deps should be safe in tests")
	}
	d = Deps{Cfg: config.New(), RunID: "r1"}
	if !d.ZeroOK() {
		t.Fatal("non-zero Deps should also report ZeroOK")
	}
}
