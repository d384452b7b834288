package main

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
)

// ErrDocumentUnreadable marks a project export that is missing or is not well-formed XML.
var ErrDocumentUnreadable = errors.New("project document unreadable")

// DocumentError reports why a project export could not be read.
// It matches ErrDocumentUnreadable with errors.Is.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", ErrDocumentUnreadable, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrDocumentUnreadable, e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

func (e *DocumentError) Is(target error) bool { return target == ErrDocumentUnreadable }

// Document is the subset of a project export (.xef) the matrix generator reads.
// Modules and Variables keep document order.
type Document struct {
	// Header is the contentHeader element directly under the root, nil if absent
	Header *ContentHeader

	// PLC is the first partItem found directly under a PLC element, nil if absent
	PLC *PartItem

	// Modules are all moduleQuantum declarations, at any depth
	Modules []ModuleDecl

	// Variables are all variables declarations, at any depth
	Variables []VariableDecl
}

// ContentHeader carries the project name set in the authoring tool.
type ContentHeader struct {
	Name  string
	Named bool
}

// PartItem identifies a piece of hardware by part number and family.
type PartItem struct {
	PartNumber string `xml:"partNumber,attr"`
	Family     string `xml:"family,attr"`
}

// EquipInfo carries the physical location of a module.
type EquipInfo struct {
	TopoAddress string `xml:"topoAddress,attr"`
}

// ModuleDecl is one moduleQuantum element.
type ModuleDecl struct {
	PartItem  *PartItem  `xml:"partItem"`
	EquipInfo *EquipInfo `xml:"equipInfo"`
}

// VariableDecl is one variables element.
type VariableDecl struct {
	Name               string            `xml:"name,attr"`
	TypeName           string            `xml:"typeName,attr"`
	TopologicalAddress string            `xml:"topologicalAddress,attr"`
	Comment            *string           `xml:"comment"`
	Elements           []InstanceElement `xml:"instanceElementDesc"`
}

// InstanceElement is an instanceElementDesc node: one member of a structured
// variable, possibly nesting further members.
type InstanceElement struct {
	Name       string             `xml:"name,attr"`
	Attributes []ElementAttribute `xml:"attribute"`
	Elements   []InstanceElement  `xml:"instanceElementDesc"`
}

// ElementAttribute is a name/value attribute attached to an instance element.
type ElementAttribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// LoadDocument opens and parses the project export at path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := ParseDocument(f)
	if err != nil {
		var de *DocumentError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// ParseDocument reads a project export from r. The whole document must be
// well-formed; any syntax error fails the parse and no partial Document is returned.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{}
	var stack []string
	rootSeen := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DocumentError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			rootSeen = true
			name := t.Name.Local

			switch {
			case name == "moduleQuantum":
				var m ModuleDecl
				if err := dec.DecodeElement(&m, &t); err != nil {
					return nil, &DocumentError{Err: err}
				}
				doc.Modules = append(doc.Modules, m)
				continue
			case name == "variables":
				var v VariableDecl
				if err := dec.DecodeElement(&v, &t); err != nil {
					return nil, &DocumentError{Err: err}
				}
				doc.Variables = append(doc.Variables, v)
				continue
			case name == "contentHeader" && len(stack) == 1 && doc.Header == nil:
				doc.Header = &ContentHeader{}
				doc.Header.Name, doc.Header.Named = attr(t, "name")
			case name == "partItem" && len(stack) > 0 && stack[len(stack)-1] == "PLC" && doc.PLC == nil:
				doc.PLC = &PartItem{}
				doc.PLC.PartNumber, _ = attr(t, "partNumber")
				doc.PLC.Family, _ = attr(t, "family")
			}
			stack = append(stack, name)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !rootSeen {
		return nil, &DocumentError{Err: errors.New("no root element")}
	}
	return doc, nil
}

func attr(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Model returns the declared part number, empty when the partItem is missing.
func (m ModuleDecl) Model() string {
	if m.PartItem == nil {
		return ""
	}
	return m.PartItem.PartNumber
}

// Address returns the module's topology address and whether one was declared.
func (m ModuleDecl) Address() (string, bool) {
	if m.EquipInfo == nil || m.EquipInfo.TopoAddress == "" {
		return "", false
	}
	return m.EquipInfo.TopoAddress, true
}
