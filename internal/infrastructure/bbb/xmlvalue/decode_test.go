// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package xmlvalue

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScalars(t *testing.T) {
	body := `<?xml version="1.0"?>
<response>
  <returncode>SUCCESS</returncode>
  <running>true</running>
  <message>  padded text  </message>
  <empty/>
  <blank>   </blank>
</response>`

	got, err := Decode([]byte(body))
	require.NoError(t, err)

	want := MapOf(
		"returncode", "SUCCESS",
		"running", "true",
		"message", "padded text",
		"empty", "",
		"blank", "",
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded value mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"returncode", "running", "message", "empty", "blank"}, got.Keys())
}

func TestDecodeCDATA(t *testing.T) {
	body := `<response><returncode>SUCCESS</returncode><meetingName><![CDATA[Weekly <sync>]]></meetingName></response>`

	got, err := Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "Weekly <sync>", got.GetString("meetingName"))
}

func TestDecodeRepeatedScalarOverwrites(t *testing.T) {
	body := `<response><returncode>SUCCESS</returncode><a>first</a><b>x</b><a>second</a></response>`

	got, err := Decode([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "second", got.GetString("a"))
	assert.Equal(t, []string{"returncode", "a", "b"}, got.Keys())
}

func TestDecodeNestedList(t *testing.T) {
	body := `<response>
  <returncode>SUCCESS</returncode>
  <recordings>
    <recording>
      <recordID>r1</recordID>
      <meetingID>m1</meetingID>
      <playback>
        <format><type>presentation</type><url>https://bbb.example.org/p/r1</url></format>
        <format><type>video</type><url>https://bbb.example.org/v/r1</url></format>
      </playback>
    </recording>
    <recording>
      <recordID>r2</recordID>
      <meetingID>m2</meetingID>
      <playback>
        <format><type>presentation</type><url>https://bbb.example.org/p/r2</url></format>
      </playback>
    </recording>
  </recordings>
</response>`

	got, err := Decode([]byte(body))
	require.NoError(t, err)

	want := MapOf(
		"returncode", "SUCCESS",
		"recordings", List{
			MapOf(
				"recordID", "r1",
				"meetingID", "m1",
				"playback", List{
					MapOf("type", "presentation", "url", "https://bbb.example.org/p/r1"),
					MapOf("type", "video", "url", "https://bbb.example.org/v/r1"),
				},
			),
			MapOf(
				"recordID", "r2",
				"meetingID", "m2",
				"playback", List{
					MapOf("type", "presentation", "url", "https://bbb.example.org/p/r2"),
				},
			),
		},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded value mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeNestedMap(t *testing.T) {
	body := `<response><returncode>SUCCESS</returncode><metadata><origin>lfx</origin><course>intro</course></metadata></response>`

	got, err := Decode([]byte(body))
	require.NoError(t, err)

	metadata, ok := got.GetMap("metadata")
	require.True(t, ok)
	assert.Equal(t, []string{"origin", "course"}, metadata.Keys())
	assert.Equal(t, "lfx", metadata.GetString("origin"))
}

func TestDecodeImagesAndPreview(t *testing.T) {
	body := `<response>
  <returncode>SUCCESS</returncode>
  <format>
    <type>presentation</type>
    <preview>
      <images>
        <image width="176" height="136" alt="Welcome">https://bbb.example.org/thumb-1.png</image>
        <image width="176" height="136" alt="Agenda">https://bbb.example.org/thumb-2.png</image>
      </images>
    </preview>
  </format>
</response>`

	got, err := Decode([]byte(body))
	require.NoError(t, err)

	format, ok := got.GetMap("format")
	require.True(t, ok)

	preview, ok := format.GetList("preview")
	require.True(t, ok)
	require.Len(t, preview, 2)

	want := List{
		MapOf("height", "136", "width", "176", "title", "Welcome", "url", "https://bbb.example.org/thumb-1.png"),
		MapOf("height", "136", "width", "176", "title", "Agenda", "url", "https://bbb.example.org/thumb-2.png"),
	}
	if diff := cmp.Diff(want, preview); diff != "" {
		t.Errorf("preview mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeImagesNumberedPerParent(t *testing.T) {
	body := `<response>
  <a><image alt="x" width="1" height="2">u1</image><image alt="y" width="3" height="4">u2</image></a>
  <b><image alt="z" width="5" height="6">u3</image></b>
</response>`

	got, err := Decode([]byte(body))
	require.NoError(t, err)

	a, _ := got.GetMap("a")
	b, _ := got.GetMap("b")
	assert.Equal(t, []string{"image1", "image2"}, a.Keys())
	assert.Equal(t, []string{"image1"}, b.Keys())
	img, _ := b.GetMap("image1")
	assert.Equal(t, "u3", img.GetString("url"))
}

func TestDecodeImageWithoutURL(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "self closing", body: `<response><a><image alt="x" width="1" height="2"/></a></response>`},
		{name: "empty element", body: `<response><a><image alt="x"></image></a></response>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.body))
			require.NoError(t, err)

			a, ok := got.GetMap("a")
			require.True(t, ok)
			assert.Equal(t, []string{"image"}, a.Keys())
			image, _ := a.Get("image")
			assert.Equal(t, Scalar(""), image)
		})
	}
}

func TestDecodeFindsNestedResponse(t *testing.T) {
	body := `<envelope><response><returncode>FAILED</returncode><messageKey>notFound</messageKey></response></envelope>`

	got, err := Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "FAILED", got.GetString("returncode"))
	assert.Equal(t, "notFound", got.GetString("messageKey"))
}

func TestDecodeLatin1Declaration(t *testing.T) {
	body := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><response><name>Caf\xe9</name></response>"

	got, err := Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "Café", got.GetString("name"))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "empty body", body: "", wantErr: ErrEmptyDocument},
		{name: "whitespace body", body: "  \n ", wantErr: ErrEmptyDocument},
		{name: "no response element", body: "<html><body>maintenance</body></html>", wantErr: ErrNoResponseElement},
		{name: "truncated", body: "<response><returncode>SUCC"},
		{name: "not xml", body: "{\"returncode\":\"SUCCESS\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, got)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
			}
		})
	}
}

func TestDecodeReaderMatchesDecode(t *testing.T) {
	body := `<response><returncode>SUCCESS</returncode><version>2.7</version></response>`

	fromBytes, err := Decode([]byte(body))
	require.NoError(t, err)
	fromReader, err := DecodeReader(strings.NewReader(body))
	require.NoError(t, err)

	assert.True(t, fromBytes.Equal(fromReader))
}
