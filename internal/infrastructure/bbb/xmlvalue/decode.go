// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package xmlvalue

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// RootElement is the element every conferencing server response is wrapped in.
const RootElement = "response"

var (
	// ErrEmptyDocument is returned for a body with no XML elements at all.
	ErrEmptyDocument = errors.New("empty XML document")
	// ErrNoResponseElement is returned when the document has no <response> element.
	ErrNoResponseElement = errors.New("missing <response> element")
)

// element is the intermediate tree built from the token stream.
type element struct {
	name     string
	attrs    map[string]string
	text     strings.Builder
	children []*element
}

// Decode parses data and returns the children of its first <response>
// element as an ordered map.
func Decode(data []byte) (*Map, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader is Decode for a stream.
func DecodeReader(r io.Reader) (*Map, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}
	response := findElement(root, RootElement)
	if response == nil {
		return nil, ErrNoResponseElement
	}
	return decodeChildren(response), nil
}

func parseTree(r io.Reader) (*element, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charsetReader

	var root *element
	var stack []*element
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local}
			if len(t.Attr) > 0 {
				el.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					el.attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("parsing XML: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}

// findElement walks the tree in document order.
func findElement(el *element, name string) *element {
	if el.name == name {
		return el
	}
	for _, c := range el.children {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

// decodeChildren turns the element children of el into a map keyed by tag
// name. Repeated tags overwrite earlier ones except for images, which are
// numbered image1, image2 and so on.
func decodeChildren(el *element) *Map {
	m := NewMap()
	images := 0
	for _, c := range el.children {
		if isImage(c) {
			images++
			m.Set(fmt.Sprintf("image%d", images), decodeImage(c))
			continue
		}
		m.Set(c.name, decodeElement(c))
	}
	return m
}

func decodeElement(el *element) Value {
	if len(el.children) == 0 {
		return Scalar(strings.TrimSpace(el.text.String()))
	}

	first := el.children[0]
	if len(first.children) == 0 {
		return decodeChildren(el)
	}

	// A container of structured records. <preview> wraps a single element
	// whose children are the entries we want.
	if el.name == "preview" {
		return decodeChildren(first).Values()
	}
	list := make(List, 0, len(el.children))
	for _, c := range el.children {
		list = append(list, decodeChildren(c))
	}
	return list
}

// isImage reports whether el is a thumbnail: an <image> holding its URL as
// text with at least one of the size or alt attributes. An empty <image>
// decodes like any other empty element.
func isImage(el *element) bool {
	if el.name != "image" || len(el.children) > 0 || el.text.Len() == 0 {
		return false
	}
	for _, a := range []string{"height", "width", "alt"} {
		if _, ok := el.attrs[a]; ok {
			return true
		}
	}
	return false
}

func decodeImage(el *element) *Map {
	return MapOf(
		"height", el.attrs["height"],
		"width", el.attrs["width"],
		"title", el.attrs["alt"],
		"url", strings.TrimSpace(el.text.String()),
	)
}
