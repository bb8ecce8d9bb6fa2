package validate

import (
	"testing"

	perr "wdlabels/internal/platform/errors"
	"wdlabels/internal/platform/testkit"
)

type opts struct {
	Threads int    `env:"THREADS" validate:"gte=1,lte=64"`
	Mode    string `env:"ESCAPE" validate:"oneof=space raw escape"`
	Name    string `validate:"max=3"`
}

// toolOpts is only validated after fake_tool is registered
type toolOpts struct {
	Tool string `env:"TOOL" validate:"omitempty,fake_tool"`
}

func TestStruct_OK(t *testing.T) {
	if err := Struct(opts{Threads: 4, Mode: "raw"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestStruct_UsesEnvNamesAndShortMessages(t *testing.T) {
	err := Struct(opts{Threads: 0, Mode: "raw"})
	if !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("err = %v", err)
	}
	pe, _ := perr.As(err)
	if pe.Field() != "THREADS" {
		t.Fatalf("field = %q", pe.Field())
	}
	testkit.MustContain(t, err.Error(), "THREADS must be at least 1")

	err = Struct(opts{Threads: 2, Mode: "csv"})
	testkit.MustContain(t, err.Error(), "ESCAPE must be one of [space raw escape]")

	err = Struct(opts{Threads: 2, Mode: "raw", Name: "long"})
	testkit.MustContain(t, err.Error(), "Name must be at most 3")
}

func TestRegisterValidation_CustomTag(t *testing.T) {
	err := RegisterValidation("fake_tool", func(fl FieldLevel) bool {
		return fl.Field().String() == "zstd"
	}, "{0} has unsupported tool {1}")
	if err != nil {
		t.Fatal(err)
	}
	if err := Struct(toolOpts{Tool: "zstd"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	err = Struct(toolOpts{Tool: "xz"})
	testkit.MustContain(t, err.Error(), "TOOL has unsupported tool xz")
}

func TestStruct_InvalidTarget(t *testing.T) {
	if err := Struct(42); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("err = %v", err)
	}
}

func TestFieldAndMessage_Nil(t *testing.T) {
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("got %q %q", f, m)
	}
}
