package syllabus_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/csec-tutor/study-server/internal/syllabus"
)

func TestLoader_LoadSubjects(t *testing.T) {
	dir := setupTestCatalog(t)

	loader, err := syllabus.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	subjects := loader.AllSubjects()
	if len(subjects) == 0 {
		t.Error("AllSubjects() returned empty")
	}
}

func TestLoader_Get(t *testing.T) {
	dir := setupTestCatalog(t)

	loader, err := syllabus.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	subject, found := loader.Get("Mathematics")
	if !found {
		t.Fatal("Get(Mathematics) not found")
	}
	if len(subject.Topics) == 0 {
		t.Error("Subject.Topics is empty")
	}
}

func TestLoader_Get_NormalizedKey(t *testing.T) {
	dir := setupTestCatalog(t)

	loader, err := syllabus.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	if _, found := loader.Get("  MATHEMATICS "); !found {
		t.Error("Get() should resolve case and whitespace variants")
	}
}

func TestLoader_PrerequisitesFor(t *testing.T) {
	dir := setupTestCatalog(t)

	loader, err := syllabus.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	prereqs := loader.PrerequisitesFor("Mathematics")
	if len(prereqs["Geometry"]) != 1 || prereqs["Geometry"][0] != "Algebra" {
		t.Errorf("Geometry prerequisites = %v, want [Algebra]", prereqs["Geometry"])
	}
}

func TestLoader_PrerequisitesFor_UnknownSubject(t *testing.T) {
	dir := setupTestCatalog(t)

	loader, err := syllabus.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	prereqs := loader.PrerequisitesFor("Underwater Basket Weaving")
	if prereqs == nil {
		t.Error("PrerequisitesFor() should return an empty table, not nil")
	}
	if len(prereqs) != 0 {
		t.Errorf("PrerequisitesFor() = %v, want empty", prereqs)
	}
}

func TestLoader_EmptyDir(t *testing.T) {
	loader, err := syllabus.NewLoader(t.TempDir())
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if got := loader.AllSubjects(); len(got) != 0 {
		t.Errorf("AllSubjects() = %d, want 0 for empty dir", len(got))
	}
}

func TestLoader_SkipsNonSubjectYAML(t *testing.T) {
	dir := setupTestCatalog(t)
	os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("just: metadata\n"), 0o644)

	loader, err := syllabus.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if got := loader.AllSubjects(); len(got) != 2 {
		t.Errorf("AllSubjects() = %d subjects, want 2 (metadata YAML skipped)", len(got))
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mathematics", "mathematics"},
		{"English A", "english_a"},
		{"  Social Studies  ", "social_studies"},
		{"Français", "francais"},
		{"Español", "espanol"},
	}

	for _, c := range cases {
		if got := syllabus.NormalizeKey(c.in); got != c.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func setupTestCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	subjectsDir := filepath.Join(dir, "subjects")
	os.MkdirAll(subjectsDir, 0o755)

	os.WriteFile(filepath.Join(subjectsDir, "mathematics.yaml"), []byte(`
name: Mathematics
exam_code: "05134010"
topics:
  - Algebra
  - Geometry
  - Trigonometry
prerequisites:
  Geometry:
    - Algebra
  Trigonometry:
    - Geometry
subtopics:
  Algebra:
    - Linear equations
    - Simultaneous equations
`), 0o644)

	os.WriteFile(filepath.Join(subjectsDir, "english_a.yaml"), []byte(`
name: English A
topics:
  - Comprehension
  - Summary writing
`), 0o644)

	return dir
}
