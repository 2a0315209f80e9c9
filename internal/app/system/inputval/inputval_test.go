package inputval

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dalemusser/libraryhub/internal/domain/models"
)

type sample struct {
	Title    string          `validate:"required,max=10" label:"Title"`
	Authors  []string        `validate:"required,min=1" label:"Authors"`
	Priority models.Priority `validate:"required,priority" label:"Priority"`
	Category models.Category `validate:"omitempty,category" label:"Category"`
	Year     int             `validate:"omitempty,min=1000" label:"Year"`
}

func valid() sample {
	return sample{Title: "Topology", Authors: []string{"A. Bourbaki"}, Priority: models.PriorityMedium}
}

func TestValidate_OK(t *testing.T) {
	if r := Validate(valid()); r.HasErrors() {
		t.Fatalf("unexpected errors: %+v", r.Errors)
	}
}

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*sample)
		wantField string
		wantMsg   string
	}{
		{"missing title", func(s *sample) { s.Title = "" }, "Title", "Title is required."},
		{"long title", func(s *sample) { s.Title = strings.Repeat("x", 11) }, "Title", "Title must be at most 10 characters."},
		{"no authors", func(s *sample) { s.Authors = nil }, "Authors", "Authors must contain at least one entry."},
		{"empty authors", func(s *sample) { s.Authors = []string{} }, "Authors", "Authors must contain at least one entry."},
		{"bad priority", func(s *sample) { s.Priority = "Urgent" }, "Priority", `Priority "Urgent" is not a recognized value.`},
		{"bad category", func(s *sample) { s.Category = "Poetry" }, "Category", `Category "Poetry" is not a recognized value.`},
		{"old year", func(s *sample) { s.Year = 999 }, "Year", "Year must be at least 1000."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			r := Validate(s)
			if !r.HasErrors() {
				t.Fatal("expected a validation error")
			}
			if r.FirstField() != tt.wantField {
				t.Errorf("field: got %q, want %q", r.FirstField(), tt.wantField)
			}
			if r.First() != tt.wantMsg {
				t.Errorf("message: got %q, want %q", r.First(), tt.wantMsg)
			}
		})
	}
}

func TestValidate_EmptyCategoryAllowed(t *testing.T) {
	s := valid()
	s.Category = ""
	if r := Validate(s); r.HasErrors() {
		t.Fatalf("empty optional enum should pass, got %q", r.First())
	}
}

func TestTrimAll(t *testing.T) {
	got := TrimAll([]string{"  A. Bourbaki ", "", "   ", "J. Munkres"})
	want := []string{"A. Bourbaki", "J. Munkres"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := TrimAll(nil); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}
