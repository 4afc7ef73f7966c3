package docproc

import (
	"errors"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindInput, "input"},
		{KindCollaborator, "collaborator"},
		{KindRender, "render"},
		{KindRaster, "raster"},
		{ErrorKind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPipelineError(t *testing.T) {
	err := stageErr(KindRender, "merge documents", ErrPDFMerge)

	want := `render stage "merge documents": PDF merge failed`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrPDFMerge) {
		t.Error("errors.Is does not reach the wrapped cause")
	}

	var perr *PipelineError
	if !errors.As(err, &perr) {
		t.Fatal("errors.As failed")
	}
	if perr.Kind != KindRender || perr.Stage != "merge documents" {
		t.Errorf("unexpected fields: %+v", perr)
	}
}
