// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset is the character set parameter values are encoded in before
// percent-escaping.
type Charset string

const (
	CharsetUTF8     Charset = "UTF-8"
	CharsetISO88591 Charset = "ISO-8859-1"
)

// query builds a query string whose parameter order is exactly the order
// of the add calls. The checksum is computed over this exact string.
type query struct {
	charset Charset
	parts   []string
}

func newQuery(charset Charset) *query {
	return &query{charset: charset}
}

// add appends an escaped free-text parameter.
func (q *query) add(key, value string) *query {
	q.parts = append(q.parts, url.QueryEscape(key)+"="+q.escape(value))
	return q
}

// addInt appends a numeric parameter.
func (q *query) addInt(key string, value int) *query {
	q.parts = append(q.parts, key+"="+strconv.Itoa(value))
	return q
}

// addBool appends a true/false parameter.
func (q *query) addBool(key string, value bool) *query {
	q.parts = append(q.parts, key+"="+strconv.FormatBool(value))
	return q
}

func (q *query) String() string {
	return strings.Join(q.parts, "&")
}

func (q *query) escape(value string) string {
	if q.charset == CharsetISO88591 {
		// Characters outside Latin-1 are replaced by the charmap substitute byte.
		latin1, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(value)
		if err == nil {
			value = latin1
		}
	}
	return url.QueryEscape(value)
}
