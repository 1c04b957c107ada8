package catalog

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/eternalmods/eternalpatcher/internal/patch"
)

// Definitions file syntax:
//
//	# comment
//	<build id>=<executable file name>:<md5 checksum>:<group>[,<group>...]
//	patch=<description>:offset|pattern:<group>[,<group>...]:<hex offset|hex pattern>:<hex bytes>
//
// Lines that do not follow this syntax are skipped. Non-hex characters in a
// hex field abort the parse with a *DecodeError.

const (
	patchKeyword = "patch"

	buildFields = 3
	patchFields = 5

	// maxLineSize bounds a single definitions line.
	maxLineSize = 1 << 20
)

// DecodeError reports a hex field that could not be decoded.
type DecodeError struct {
	Line  int
	Field string
	Value string
	Err   error
}

// Error returns the formatted error string.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("catalog: line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ParseFile parses the definitions file at path.
func ParseFile(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return c, nil
}

// Parse reads definitions from r and returns a new Catalogue. Builds keep
// file order. A patch line is assigned to every build already declared above
// it whose groups include one of the line's groups; a build never receives
// two patches with the same description.
func Parse(r io.Reader) (*Catalogue, error) {
	c := &Catalogue{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			c.Skipped = append(c.Skipped, lineNo)
			continue
		}
		key = strings.TrimSpace(key)

		if strings.EqualFold(key, patchKeyword) {
			p, groups, err := parsePatch(lineNo, value)
			if err != nil {
				return nil, err
			}
			if p == nil {
				c.Skipped = append(c.Skipped, lineNo)
				continue
			}
			c.assign(p, groups)
			continue
		}

		b := parseBuild(key, value)
		if b == nil {
			c.Skipped = append(c.Skipped, lineNo)
			continue
		}
		c.Builds = append(c.Builds, b)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read line %d: %w", lineNo+1, err)
	}
	return c, nil
}

// assign hands p to every build subscribed to one of groups.
func (c *Catalogue) assign(p *patch.Patch, groups []string) {
	for _, g := range groups {
		for _, b := range c.Builds {
			if b.HasGroup(g) {
				b.assign(p)
			}
		}
	}
}

func parseBuild(id, value string) *Build {
	fields := splitTrim(value, ":")
	if len(fields) != buildFields || id == "" {
		return nil
	}
	if fields[0] == "" || fields[1] == "" {
		return nil
	}
	return &Build{
		ID:                 id,
		ExecutableFileName: fields[0],
		Checksum:           fields[1],
		Groups:             splitList(fields[2]),
	}
}

// parsePatch returns a nil patch and nil error for a malformed line.
func parsePatch(lineNo int, value string) (*patch.Patch, []string, error) {
	fields := splitTrim(value, ":")
	if len(fields) != patchFields {
		return nil, nil, nil
	}
	description, kindName, tags, locator, payload := fields[0], fields[1], fields[2], fields[3], fields[4]

	if description == "" {
		return nil, nil, nil
	}
	kind, ok := patch.ParseKind(kindName)
	if !ok {
		return nil, nil, nil
	}
	if payload == "" || len(payload)%2 != 0 {
		return nil, nil, nil
	}
	if locator == "" || (kind == patch.Pattern && len(locator)%2 != 0) {
		return nil, nil, nil
	}
	groups := splitList(tags)
	if len(groups) == 0 {
		return nil, nil, nil
	}

	replacement, err := hex.DecodeString(payload)
	if err != nil {
		return nil, nil, &DecodeError{Line: lineNo, Field: "patch bytes", Value: payload, Err: err}
	}

	switch kind {
	case patch.Offset:
		offset, err := parseOffset(locator)
		if err != nil {
			return nil, nil, &DecodeError{Line: lineNo, Field: "offset", Value: locator, Err: err}
		}
		return patch.NewOffset(description, offset, replacement), groups, nil
	default:
		pattern, err := hex.DecodeString(locator)
		if err != nil {
			return nil, nil, &DecodeError{Line: lineNo, Field: "pattern", Value: locator, Err: err}
		}
		return patch.NewPattern(description, pattern, replacement), groups, nil
	}
}

// parseOffset parses a hexadecimal offset with an optional 0x prefix.
func parseOffset(s string) (int64, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return 0, errors.New("no hex digits")
	}
	v, err := strconv.ParseUint(digits, 16, 63)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return int64(v), nil
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
