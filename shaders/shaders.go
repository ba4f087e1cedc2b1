// Package shaders loads the snowflake shader programs.
//
// A shader file holds several programs, each introduced by a marker line:
//
//	#shader vertex    GLSL vertex stage (OpenGL backend)
//	#shader fragment  GLSL fragment stage (OpenGL backend)
//	#shader kage      Kage fragment program (Ebitengine backend)
//
// Every other line belongs to the most recent section.
package shaders

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed basic.shader
var basic string

// Kind names a section of a shader file.
type Kind uint8

const (
	KindVertex Kind = iota + 1
	KindFragment
	KindKage
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindFragment:
		return "fragment"
	case KindKage:
		return "kage"
	default:
		return "unknown"
	}
}

const marker = "#shader"

var (
	ErrNoSection      = errors.New("shader source outside of a #shader section")
	ErrUnknownSection = errors.New("unknown #shader section")
	ErrMissingSection = errors.New("missing #shader section")
)

// Source is a parsed shader file.
type Source struct {
	Vertex   string
	Fragment string
	Kage     string
}

// Section returns the text of section k.
func (s Source) Section(k Kind) string {
	switch k {
	case KindVertex:
		return s.Vertex
	case KindFragment:
		return s.Fragment
	case KindKage:
		return s.Kage
	}
	return ""
}

// Require reports an ErrMissingSection error naming every empty section in kinds.
func (s Source) Require(kinds ...Kind) error {
	var missing []string
	for _, k := range kinds {
		if strings.TrimSpace(s.Section(k)) == "" {
			missing = append(missing, k.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSection, strings.Join(missing, ", "))
	}
	return nil
}

// Default returns the built-in shader programs.
func Default() Source {
	s, err := Parse(strings.NewReader(basic))
	if err != nil {
		panic("shaders: embedded basic.shader: " + err.Error())
	}
	return s
}

// Parse splits a shader file into its sections. Blank lines before the first marker
// are ignored.
func Parse(r io.Reader) (Source, error) {
	var sections [KindKage + 1]strings.Builder
	var cur Kind

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.Contains(text, marker) {
			k, err := parseMarker(text)
			if err != nil {
				return Source{}, fmt.Errorf("line %d: %w", line, err)
			}
			cur = k
			continue
		}
		if cur == 0 {
			if strings.TrimSpace(text) == "" {
				continue
			}
			return Source{}, fmt.Errorf("line %d: %w", line, ErrNoSection)
		}
		sections[cur].WriteString(text)
		sections[cur].WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return Source{}, fmt.Errorf("read shader: %w", err)
	}

	return Source{
		Vertex:   sections[KindVertex].String(),
		Fragment: sections[KindFragment].String(),
		Kage:     sections[KindKage].String(),
	}, nil
}

func parseMarker(text string) (Kind, error) {
	rest := strings.TrimSpace(text[strings.Index(text, marker)+len(marker):])
	switch {
	case strings.Contains(rest, "vertex"):
		return KindVertex, nil
	case strings.Contains(rest, "fragment"):
		return KindFragment, nil
	case strings.Contains(rest, "kage"):
		return KindKage, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSection, rest)
	}
}

// Load parses the shader file at path. An empty path yields Default().
func Load(path string) (Source, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open shader %q: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return Source{}, fmt.Errorf("parse shader %q: %w", path, err)
	}
	return s, nil
}
