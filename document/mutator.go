package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/c360studio/buttonctl/registry"
)

// Button is a single button descriptor as encoded in the document.
type Button struct {
	ID    string
	Color string
}

// Markup renders the button exactly as it is spliced into the document.
func (b Button) Markup() string {
	return fmt.Sprintf(`<button id="%s" style="background-color: %s;">Button %s</button>`, b.ID, b.Color, b.ID)
}

// Mutator inserts and removes buttons in the document at path.
// Each operation is a full read followed by a full rewrite; operations are
// serialized against each other.
type Mutator struct {
	path     string
	registry *registry.Registry

	mu sync.Mutex
}

// NewMutator creates a mutator for the document at path.
func NewMutator(path string, reg *registry.Registry) *Mutator {
	if reg == nil {
		reg = registry.New()
	}
	return &Mutator{path: path, registry: reg}
}

// Path returns the document path.
func (m *Mutator) Path() string {
	return m.path
}

// Registry returns the registry the mutator validates against.
func (m *Mutator) Registry() *registry.Registry {
	return m.registry
}

// Create splices a button for id with the given background color into the
// document, immediately before the closing body tag.
func (m *Mutator) Create(ctx context.Context, id, color string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.registry.IsAllowedName(id) {
		return reject(id, color, ErrNameNotAllowed)
	}
	if m.registry.Has(id) {
		return reject(id, color, ErrAlreadyExists)
	}
	if !m.registry.IsAllowedColor(color) {
		return reject(id, color, ErrColorNotAllowed)
	}

	content, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	html := string(content)
	if !strings.Contains(html, BodyAnchor) {
		return reject(id, color, ErrMissingAnchor)
	}

	markup := Button{ID: id, Color: color}.Markup()
	updated := strings.Replace(html, BodyAnchor, markup+"\n"+BodyAnchor, 1)

	if err := os.WriteFile(m.path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	m.registry.Add(id)
	return nil
}

// Delete removes every button whose id attribute equals id, along with the
// whitespace that follows it.
func (m *Mutator) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	content, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	html := string(content)
	updated := buttonPattern(id).ReplaceAllString(html, "")
	if updated == html {
		return reject(id, "", ErrNotFound)
	}

	if err := os.WriteFile(m.path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	m.registry.Delete(id)
	return nil
}

// Reconcile seeds the used set from the buttons already present in the
// document. Identifiers outside the vocabulary are skipped, as are buttons
// not written in the single-line form Create emits. It returns the
// identifiers that were added.
func (m *Mutator) Reconcile(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	content, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	buttons, err := parseButtons(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var seeded []string
	for _, b := range buttons {
		if !m.registry.IsAllowedName(b.ID) || m.registry.Has(b.ID) {
			continue
		}
		// Only seed buttons Delete can remove, or the id would be stuck.
		if !buttonPattern(b.ID).Match(content) {
			continue
		}
		m.registry.Add(b.ID)
		seeded = append(seeded, b.ID)
	}
	return seeded, nil
}

// buttonPattern matches a button start tag with the given id through the
// first closing tag after it. The dot does not cross newlines, matching the
// single-line form written by Create.
func buttonPattern(id string) *regexp.Regexp {
	return regexp.MustCompile(`<button id="` + regexp.QuoteMeta(id) + `".*?</button>\s*`)
}
