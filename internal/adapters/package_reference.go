package adapters

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/types"
)

const (
	packageReferenceElement = "PackageReference"
	packageIncludeAttr      = "Include"
	packageVersionAttr      = "Version"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type PackageReferenceAdapter struct{}

func NewPackageReferenceAdapter() PackageReferenceAdapter {
	return PackageReferenceAdapter{}
}

func (a PackageReferenceAdapter) ManifestText(path string) (string, error) {
	data, err := readManifest(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadPackages collects PackageReference elements in any namespace. A
// name declared twice keeps its first position and its last version.
func (a PackageReferenceAdapter) ReadPackages(path string) ([]types.PackageRecord, error) {
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	var records []types.PackageRecord
	seen := map[string]int{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, manifestParseError(path, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != packageReferenceElement {
			continue
		}
		name := strings.TrimSpace(plainAttr(start, packageIncludeAttr))
		version := strings.TrimSpace(plainAttr(start, packageVersionAttr))
		if name == "" || version == "" {
			continue
		}
		if idx, ok := seen[name]; ok {
			records[idx].DeclaredVersion = version
			continue
		}
		seen[name] = len(records)
		records = append(records, types.PackageRecord{Name: name, DeclaredVersion: version})
	}
	return records, nil
}

// WritePackages patches Version attribute values in place. Only
// PackageReference elements in the root element's default namespace are
// touched, and the file is rewritten only when its bytes change.
func (a PackageReferenceAdapter) WritePackages(path string, resolved map[string]string) (bool, error) {
	if len(resolved) == 0 {
		return false, nil
	}
	data, err := readManifest(path)
	if err != nil {
		return false, err
	}
	offset := 0
	if bytes.HasPrefix(data, utf8BOM) {
		offset = len(utf8BOM)
	}
	body := data[offset:]

	type patch struct {
		start, end int
		value      string
	}
	var patches []patch
	dec := xml.NewDecoder(bytes.NewReader(body))
	rootSeen := false
	rootNS := ""
	for {
		tokStart := int(dec.InputOffset())
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false, manifestParseError(path, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !rootSeen {
			rootSeen = true
			rootNS = start.Name.Space
		}
		if start.Name.Local != packageReferenceElement || start.Name.Space != rootNS {
			continue
		}
		version, ok := resolved[strings.TrimSpace(plainAttr(start, packageIncludeAttr))]
		if !ok {
			continue
		}
		tokEnd := int(dec.InputOffset())
		valueStart, valueEnd, found := attrValueSpan(body[tokStart:tokEnd], packageVersionAttr)
		if !found {
			continue
		}
		patches = append(patches, patch{start: tokStart + valueStart, end: tokStart + valueEnd, value: version})
	}
	if len(patches) == 0 {
		return false, nil
	}

	var out bytes.Buffer
	out.Grow(len(data))
	out.Write(data[:offset])
	last := 0
	for _, p := range patches {
		out.Write(body[last:p.start])
		if err := xml.EscapeText(&out, []byte(p.value)); err != nil {
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode package version").
				WithCause(err)
		}
		last = p.end
	}
	out.Write(body[last:])
	if bytes.Equal(out.Bytes(), data) {
		return false, nil
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, out.Bytes(), mode); err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write project manifest " + path).
			WithCause(err)
	}
	return true, nil
}

func readManifest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read project manifest " + path).
			WithCause(err)
	}
	return data, nil
}

func manifestParseError(path string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("failed to parse project manifest " + path).
		WithCause(err)
}

// plainAttr returns the value of an unprefixed attribute.
func plainAttr(start xml.StartElement, local string) string {
	for _, attr := range start.Attr {
		if attr.Name.Space == "" && attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// attrValueSpan locates the quoted value of attribute name inside a raw
// start tag and returns the byte range between the quotes.
func attrValueSpan(tag []byte, name string) (int, int, bool) {
	i := 0
	n := len(tag)
	if i < n && tag[i] == '<' {
		i++
	}
	for i < n && !isXMLSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}
	for i < n {
		for i < n && isXMLSpace(tag[i]) {
			i++
		}
		if i >= n || tag[i] == '>' || tag[i] == '/' {
			return 0, 0, false
		}
		nameStart := i
		for i < n && !isXMLSpace(tag[i]) && tag[i] != '=' {
			i++
		}
		attrName := string(tag[nameStart:i])
		for i < n && isXMLSpace(tag[i]) {
			i++
		}
		if i >= n || tag[i] != '=' {
			return 0, 0, false
		}
		i++
		for i < n && isXMLSpace(tag[i]) {
			i++
		}
		if i >= n || (tag[i] != '"' && tag[i] != '\'') {
			return 0, 0, false
		}
		quote := tag[i]
		i++
		valueStart := i
		for i < n && tag[i] != quote {
			i++
		}
		if i >= n {
			return 0, 0, false
		}
		if attrName == name {
			return valueStart, i, true
		}
		i++
	}
	return 0, 0, false
}

func isXMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

var _ ports.PackageReferencePort = PackageReferenceAdapter{}
