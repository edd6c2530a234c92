// Package seed imports authored course catalogs: courses, their assets in
// authored order, quiz questions and learners with enrollments.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/quiz"
)

// SupportedMajor is the catalog format major version this build reads.
const SupportedMajor = "v1"

// ErrInvalidCatalog wraps every structural problem found in a catalog.
var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "pathwise://catalog.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Catalog is a parsed catalog file.
type Catalog struct {
	FormatVersion string          `yaml:"format_version"`
	Courses       []Course        `yaml:"courses"`
	Questions     []quiz.Question `yaml:"questions"`
	Users         []User          `yaml:"users"`
}

type Course struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Modules     []Module `yaml:"modules"`
}

// Module groups a topic's assets in the order learners meet them.
type Module struct {
	Topic  string  `yaml:"topic"`
	Assets []Asset `yaml:"assets"`
}

type Asset struct {
	Level           string  `yaml:"level"`
	Format          string  `yaml:"format"`
	Title           string  `yaml:"title"`
	ExpectedMinutes float64 `yaml:"expected_minutes"`
}

type User struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Role        string   `yaml:"role"`
	Enrollments []string `yaml:"enrollments"`
}

// Assets returns the course's catalog assets in authored order.
func (c Course) Assets() []*asset.Asset {
	var out []*asset.Asset
	for _, m := range c.Modules {
		for _, a := range m.Assets {
			out = append(out, asset.New(asset.NewKey(c.ID, m.Topic, a.Level, a.Format), a.Title, a.ExpectedMinutes))
		}
	}
	return out
}

// Keys returns the course's asset keys in authored order.
func (c Course) Keys() []asset.Key {
	assets := c.Assets()
	keys := make([]asset.Key, len(assets))
	for i, a := range assets {
		keys[i] = a.Key
	}
	return keys
}

// Load reads and parses a catalog file. YAML and JSON are both accepted.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse validates data against the catalog schema and the format version,
// then decodes it.
func Parse(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidCatalog, err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var cat Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	if err := CheckVersion(cat.FormatVersion); err != nil {
		return nil, err
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// CheckVersion accepts semantic versions with major SupportedMajor; the
// leading "v" is optional.
func CheckVersion(v string) error {
	canonical := strings.TrimSpace(v)
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	if !semver.IsValid(canonical) {
		return fmt.Errorf("%w: format_version %q is not a semantic version", ErrInvalidCatalog, v)
	}
	if major := semver.Major(canonical); major != SupportedMajor {
		return fmt.Errorf("%w: format_version %s unsupported, want %s.x", ErrInvalidCatalog, v, SupportedMajor)
	}
	return nil
}

func validateDocument(doc any) error {
	schema, err := catalogSchema()
	if err != nil {
		return err
	}
	// yaml values go through JSON so the validator sees its own number types
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validate checks the cross-references a schema cannot express.
func (c *Catalog) validate() error {
	var problems []string

	courses := make(map[string]bool, len(c.Courses))
	for _, course := range c.Courses {
		if courses[course.ID] {
			problems = append(problems, fmt.Sprintf("duplicate course %s", course.ID))
		}
		courses[course.ID] = true

		seen := map[string]bool{}
		for _, a := range course.Assets() {
			if seen[a.ID] {
				problems = append(problems, fmt.Sprintf("course %s: duplicate asset %s", course.ID, a.ID))
			}
			seen[a.ID] = true
		}
	}

	questions := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		if questions[q.ID] {
			problems = append(problems, fmt.Sprintf("duplicate question %s", q.ID))
		}
		questions[q.ID] = true
		if q.CorrectIndex >= len(q.Options) {
			problems = append(problems, fmt.Sprintf("question %s: correct_index %d out of range", q.ID, q.CorrectIndex))
		}
	}

	users := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if users[u.ID] {
			problems = append(problems, fmt.Sprintf("duplicate user %s", u.ID))
		}
		users[u.ID] = true
		for _, cid := range u.Enrollments {
			if !courses[cid] {
				problems = append(problems, fmt.Sprintf("user %s: enrolled in unknown course %s", u.ID, cid))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}
