package fixture

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/hvprm/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// Defaults applied to libraries that omit a field.
const (
	DefaultTitle   = "Test library"
	DefaultVersion = "1.2.3"
	DefaultCourse  = 1
)

// Fixture is a seedable library graph.
type Fixture struct {
	// Name identifies the fixture in logs and errors.
	Name string `yaml:"name"`

	// Description is free text.
	Description string `yaml:"description,omitempty"`

	// Libraries are inserted in order.
	Libraries []Library `yaml:"libraries"`

	// Activities are inserted after every library and edge.
	Activities []Activity `yaml:"activities,omitempty"`
}

// Library describes one library record.
// Omitted fields take the Default* values; MachineName defaults to Key.
type Library struct {
	Key          string       `yaml:"key"`
	MachineName  string       `yaml:"machine_name,omitempty"`
	Title        string       `yaml:"title,omitempty"`
	Version      string       `yaml:"version,omitempty"`
	Runnable     bool         `yaml:"runnable,omitempty"`
	Dependencies []Dependency `yaml:"dependencies,omitempty"`
}

// Dependency declares that the enclosing library requires Library.
type Dependency struct {
	Library string `yaml:"library"`
	Type    string `yaml:"type,omitempty"`
}

// Activity describes one activity using Library as its main library.
type Activity struct {
	Name    string `yaml:"name"`
	Library string `yaml:"library"`
	Course  int64  `yaml:"course,omitempty"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates fixture YAML.
// Returns an error for unknown fields, schema violations, duplicate keys
// and references to undeclared libraries.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	if err := validateReferences(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	return &f, nil
}

// validateSchema checks raw against the embedded #Fixture definition.
func validateSchema(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile fixture schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Fixture"))
	value := def.Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}

// validateReferences checks key uniqueness and that every reference
// names a declared library.
func validateReferences(f *Fixture) error {
	keys := make(map[string]bool, len(f.Libraries))
	for _, lib := range f.Libraries {
		if keys[lib.Key] {
			return fmt.Errorf("duplicate library key %q", lib.Key)
		}
		keys[lib.Key] = true
	}

	for _, lib := range f.Libraries {
		for _, dep := range lib.Dependencies {
			if !keys[dep.Library] {
				return fmt.Errorf("library %q depends on unknown library %q", lib.Key, dep.Library)
			}
		}
	}

	for _, a := range f.Activities {
		if !keys[a.Library] {
			return fmt.Errorf("activity %q uses unknown library %q", a.Name, a.Library)
		}
	}

	return nil
}

// record converts the fixture entry into a library record with defaults applied.
func (l Library) record() (ir.Library, error) {
	lib := ir.Library{
		MachineName: l.MachineName,
		Title:       l.Title,
		Runnable:    l.Runnable,
	}
	if lib.MachineName == "" {
		lib.MachineName = l.Key
	}
	if lib.Title == "" {
		lib.Title = DefaultTitle
	}

	version := l.Version
	if version == "" {
		version = DefaultVersion
	}
	v, err := ir.ParseVersion(version)
	if err != nil {
		return ir.Library{}, fmt.Errorf("library %q: %w", l.Key, err)
	}
	lib.Version = v

	return lib, nil
}

// Writer is the store surface Apply needs. *store.Store satisfies it.
type Writer interface {
	InsertLibrary(ctx context.Context, lib ir.Library) (int64, error)
	InsertDependency(ctx context.Context, edge ir.DependencyEdge) error
	InsertActivity(ctx context.Context, a ir.Activity) (ir.Activity, error)
}

// Seeded is what Apply wrote.
type Seeded struct {
	// Libraries maps fixture keys to the inserted records.
	Libraries map[string]ir.Library

	// Edges are the inserted dependency edges, in declaration order.
	Edges []ir.DependencyEdge

	// Activities are the inserted activities, in declaration order.
	Activities []ir.Activity
}

// Apply inserts the fixture into w. Apply is not atomic: on error the
// records inserted so far are kept and reported in the returned Seeded.
func (f *Fixture) Apply(ctx context.Context, w Writer) (*Seeded, error) {
	seeded := &Seeded{
		Libraries:  make(map[string]ir.Library, len(f.Libraries)),
		Edges:      []ir.DependencyEdge{},
		Activities: []ir.Activity{},
	}

	for _, def := range f.Libraries {
		lib, err := def.record()
		if err != nil {
			return seeded, err
		}
		id, err := w.InsertLibrary(ctx, lib)
		if err != nil {
			return seeded, fmt.Errorf("library %q: %w", def.Key, err)
		}
		lib.ID = id
		lib.Title = ir.NormalizeTitle(lib.Title)
		seeded.Libraries[def.Key] = lib
	}

	for _, def := range f.Libraries {
		for _, dep := range def.Dependencies {
			depType := ir.DependencyType(dep.Type)
			if depType == "" {
				depType = ir.DependencyPreloaded
			}
			edge := ir.DependencyEdge{
				LibraryID:         seeded.Libraries[def.Key].ID,
				RequiredLibraryID: seeded.Libraries[dep.Library].ID,
				Type:              depType,
			}
			if err := w.InsertDependency(ctx, edge); err != nil {
				return seeded, fmt.Errorf("library %q: dependency %q: %w", def.Key, dep.Library, err)
			}
			seeded.Edges = append(seeded.Edges, edge)
		}
	}

	for _, def := range f.Activities {
		course := def.Course
		if course == 0 {
			course = DefaultCourse
		}
		a, err := w.InsertActivity(ctx, ir.Activity{
			CourseID:      course,
			Name:          def.Name,
			MainLibraryID: seeded.Libraries[def.Library].ID,
		})
		if err != nil {
			return seeded, fmt.Errorf("activity %q: %w", def.Name, err)
		}
		seeded.Activities = append(seeded.Activities, a)
	}

	return seeded, nil
}
