package skill

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	recoverymodel "github.com/jmoreau/recovery-squad/backend/internal/model/recovery"
)

func TestLoadFallsBackToDefaults(t *testing.T) {
	d := Load(filepath.Join(t.TempDir(), "nope.json"))
	if d.Name != "recovery-squad" {
		t.Fatalf("expected default descriptor, got %q", d.Name)
	}
	if len(d.Input) == 0 || len(d.Output) == 0 {
		t.Fatal("default descriptor must declare a schema")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skill.json")
	content := `{"name":"custom-skill","version":"2.0.0","description":"x","input":[],"output":[],"deployment":{"url":"http://localhost:9999","expose":false,"protocol_version":"1.0.0"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write skill file: %v", err)
	}

	d := Load(path)
	if d.Name != "custom-skill" || d.Version != "2.0.0" {
		t.Fatalf("descriptor not loaded from file: %+v", d)
	}
}

func TestLoadSkipsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skill.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write skill file: %v", err)
	}

	d := Load(path)
	if d.Name != "recovery-squad" {
		t.Fatalf("malformed file should fall back to defaults, got %q", d.Name)
	}
}

// The descriptor's declared input fields must match exactly the JSON
// fields the dispatcher reads from the intake request.
func TestDescriptorInputMatchesRequestContract(t *testing.T) {
	declared := Default().InputFieldNames()
	sort.Strings(declared)

	var actual []string
	reqType := reflect.TypeOf(recoverymodel.Request{})
	for i := 0; i < reqType.NumField(); i++ {
		tag := reqType.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			continue
		}
		actual = append(actual, name)
	}
	sort.Strings(actual)

	if !reflect.DeepEqual(declared, actual) {
		t.Fatalf("descriptor schema drifted from request contract:\ndeclared: %v\nactual:   %v", declared, actual)
	}
}

func TestRequiredFieldsMarked(t *testing.T) {
	for _, f := range Default().Input {
		if f.Name == "situation" && !f.Required {
			t.Fatal("situation must be marked required")
		}
		if f.Name != "situation" && f.Required {
			t.Fatalf("field %s should not be required", f.Name)
		}
	}
}
