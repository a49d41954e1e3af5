package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"valence-go/internal/client"
)

type part struct {
	header   string
	name     string
	filename string
	ctype    string
	data     []byte
}

// parseBody splits b according to the boundary declared in its content type.
func parseBody(t *testing.T, b *client.Body, wantType string) []part {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(b.ContentType)
	if err != nil {
		t.Fatalf("ParseMediaType(%q) error = %v", b.ContentType, err)
	}
	if mediaType != wantType {
		t.Fatalf("media type = %q, want %q", mediaType, wantType)
	}
	r := multipart.NewReader(bytes.NewReader(b.Data), params["boundary"])
	var parts []part
	for {
		p, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			return parts
		}
		if err != nil {
			t.Fatalf("NextPart() error = %v", err)
		}
		data, err := io.ReadAll(p)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		parts = append(parts, part{
			header:   p.Header.Get("Content-Disposition"),
			name:     p.FormName(),
			filename: p.FileName(),
			ctype:    p.Header.Get("Content-Type"),
			data:     data,
		})
	}
}

func sampleFile() *File {
	return &File{
		Descriptor:  map[string]any{"Name": "a.txt", "Description": "d"},
		Stream:      strings.NewReader("hello"),
		Name:        "a.txt",
		ContentType: "text/plain",
	}
}

func TestEncodeSimple_RoundTrip(t *testing.T) {
	body, err := EncodeSimple(sampleFile())
	if err != nil {
		t.Fatalf("EncodeSimple() error = %v", err)
	}

	parts := parseBody(t, body, "multipart/mixed")
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}

	if parts[0].ctype != "application/json" {
		t.Errorf("part 1 Content-Type = %q, want application/json", parts[0].ctype)
	}
	var desc map[string]any
	if err := json.Unmarshal(parts[0].data, &desc); err != nil {
		t.Fatalf("part 1 is not JSON: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"Name": "a.txt", "Description": "d"}, desc); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}

	if string(parts[1].data) != "hello" {
		t.Errorf("part 2 data = %q, want hello", parts[1].data)
	}
	if parts[1].filename != "a.txt" {
		t.Errorf("part 2 filename = %q, want a.txt", parts[1].filename)
	}
	if parts[1].ctype != "text/plain" {
		t.Errorf("part 2 Content-Type = %q, want text/plain", parts[1].ctype)
	}
}

func TestEncodeSimple_WireFormat(t *testing.T) {
	body, err := EncodeSimple(sampleFile())
	if err != nil {
		t.Fatalf("EncodeSimple() error = %v", err)
	}
	b, ok := strings.CutPrefix(body.ContentType, "multipart/mixed;boundary=")
	if !ok {
		t.Fatalf("ContentType = %q", body.ContentType)
	}
	if len(b) != 32 {
		t.Errorf("boundary %q has %d characters, want 32", b, len(b))
	}

	want := "--" + b + "\r\nContent-Type: application/json\r\n\r\n" +
		`{"Description":"d","Name":"a.txt"}` + "\r\n" +
		"--" + b + "\r\n" + `Content-Disposition: form-data; name=""; filename="a.txt"` + "\r\n" +
		"Content-Type: text/plain\r\n\r\nhello" +
		"\r\n--" + b + "--"
	if got := string(body.Data); got != want {
		t.Errorf("payload =\n%q\nwant\n%q", got, want)
	}
}

func TestEncodeSimple_StreamRewound(t *testing.T) {
	f := sampleFile()
	first, err := EncodeSimple(f)
	if err != nil {
		t.Fatalf("first EncodeSimple() error = %v", err)
	}
	second, err := EncodeSimple(f)
	if err != nil {
		t.Fatalf("second EncodeSimple() error = %v", err)
	}

	// Boundaries are fresh per call; everything else is identical.
	b1 := strings.TrimPrefix(first.ContentType, "multipart/mixed;boundary=")
	b2 := strings.TrimPrefix(second.ContentType, "multipart/mixed;boundary=")
	if b1 == b2 {
		t.Error("boundary reused across calls")
	}
	if got, want := strings.ReplaceAll(string(second.Data), b2, "B"), strings.ReplaceAll(string(first.Data), b1, "B"); got != want {
		t.Errorf("second payload differs:\n%q\nwant\n%q", got, want)
	}

	if pos, _ := f.Stream.Seek(0, io.SeekCurrent); pos != 0 {
		t.Errorf("stream position after encode = %d, want 0", pos)
	}
}

func TestEncodeSimple_StreamAdvancedByCaller(t *testing.T) {
	f := sampleFile()
	_, _ = f.Stream.Seek(3, io.SeekStart)
	body, err := EncodeSimple(f)
	if err != nil {
		t.Fatalf("EncodeSimple() error = %v", err)
	}
	if parts := parseBody(t, body, "multipart/mixed"); string(parts[1].data) != "hello" {
		t.Errorf("file part = %q, want the whole stream", parts[1].data)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		f    *File
	}{
		{"nil", nil},
		{"no stream", &File{Name: "a", ContentType: "text/plain"}},
		{"no name", &File{Stream: strings.NewReader(""), ContentType: "text/plain"}},
		{"no content type", &File{Stream: strings.NewReader(""), Name: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.f.Validate(); !errors.Is(err, client.ErrMalformedInput) {
				t.Errorf("Validate() error = %v, want ErrMalformedInput", err)
			}
			if _, err := EncodeSimple(tt.f); !errors.Is(err, client.ErrMalformedInput) {
				t.Errorf("EncodeSimple() error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestEncodeMixed_MultipleFiles(t *testing.T) {
	files := []*File{
		{Stream: strings.NewReader("one"), Name: "1.txt", ContentType: "text/plain"},
		{Stream: bytes.NewReader([]byte{0, 1, 2}), Name: "2.bin", ContentType: "application/octet-stream"},
	}
	body, err := EncodeMixed(map[string]string{"Subject": "s"}, files)
	if err != nil {
		t.Fatalf("EncodeMixed() error = %v", err)
	}

	parts := parseBody(t, body, "multipart/mixed")
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	// The multi-file layout leaves a CRLF inside the descriptor part.
	if string(parts[0].data) != "{\"Subject\":\"s\"}\r\n" {
		t.Errorf("descriptor = %s", parts[0].data)
	}
	for i, want := range []struct{ name, file, data string }{
		{"file 0", "1.txt", "one"},
		{"file 1", "2.bin", "\x00\x01\x02"},
	} {
		p := parts[i+1]
		if p.name != want.name || p.filename != want.file || string(p.data) != want.data {
			t.Errorf("part %d = name %q file %q data %q, want %+v", i+1, p.name, p.filename, p.data, want)
		}
	}
}

func TestEncodeMixed_NoFiles(t *testing.T) {
	body, err := EncodeMixed(map[string]string{"Title": "t"}, nil)
	if err != nil {
		t.Fatalf("EncodeMixed() error = %v", err)
	}
	parts := parseBody(t, body, "multipart/mixed")
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	if string(parts[0].data) != "{\"Title\":\"t\"}\r\n" {
		t.Errorf("descriptor = %s", parts[0].data)
	}
}

func TestEncodeMixed_WireFormat(t *testing.T) {
	files := []*File{
		{Stream: strings.NewReader("one"), Name: "1.txt", ContentType: "text/plain"},
		{Stream: strings.NewReader("two"), Name: "2.txt", ContentType: "text/plain"},
	}
	desc := map[string]string{"Subject": "s"}

	tests := []struct {
		name  string
		files []*File
		want  func(b string) string
	}{
		{
			name:  "no files",
			files: nil,
			want: func(b string) string {
				return "--" + b + "\r\nContent-Type: application/json\r\n\r\n" +
					`{"Subject":"s"}` + "\r\n" +
					"\r\n--" + b + "--"
			},
		},
		{
			name:  "two files",
			files: files,
			want: func(b string) string {
				return "--" + b + "\r\nContent-Type: application/json\r\n\r\n" +
					`{"Subject":"s"}` + "\r\n" +
					"\r\n--" + b + "\r\n" + `Content-Disposition: form-data; name="file 0"; filename="1.txt"` + "\r\n" +
					"Content-Type: text/plain\r\n\r\none" +
					"\r\n--" + b + "\r\n" + `Content-Disposition: form-data; name="file 1"; filename="2.txt"` + "\r\n" +
					"Content-Type: text/plain\r\n\r\ntwo" +
					"\r\n--" + b + "--"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := EncodeMixed(desc, tt.files)
			if err != nil {
				t.Fatalf("EncodeMixed() error = %v", err)
			}
			b, ok := strings.CutPrefix(body.ContentType, "multipart/mixed;boundary=")
			if !ok {
				t.Fatalf("ContentType = %q", body.ContentType)
			}
			if got, want := string(body.Data), tt.want(b); got != want {
				t.Errorf("payload =\n%q\nwant\n%q", got, want)
			}
		})
	}
}

func TestEncodeMixed_RejectsBadFile(t *testing.T) {
	_, err := EncodeMixed(nil, []*File{sampleFile(), {Name: "x"}})
	if !errors.Is(err, client.ErrMalformedInput) {
		t.Errorf("EncodeMixed() error = %v, want ErrMalformedInput", err)
	}
}

func TestEncodeFormFile(t *testing.T) {
	f := &File{Stream: bytes.NewReader([]byte("PNG")), Name: `me "1".png`, ContentType: "image/png"}
	body, err := EncodeFormFile("profileImage", f)
	if err != nil {
		t.Fatalf("EncodeFormFile() error = %v", err)
	}
	parts := parseBody(t, body, "multipart/form-data")
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	p := parts[0]
	if p.name != "profileImage" || p.filename != `me "1".png` || p.ctype != "image/png" || string(p.data) != "PNG" {
		t.Errorf("part = %+v", p)
	}
}

func TestEncodeImport(t *testing.T) {
	f := &File{Stream: bytes.NewReader([]byte("zip")), Name: "pkg.zip", ContentType: "application/zip"}
	body, err := EncodeImport([]int{7, 9}, f)
	if err != nil {
		t.Fatalf("EncodeImport() error = %v", err)
	}
	parts := parseBody(t, body, "multipart/form-data")
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	for i, want := range []string{"7", "9"} {
		if parts[i].name != "targetUsers" || string(parts[i].data) != want || parts[i].ctype != "text/plain" {
			t.Errorf("part %d = %+v, want targetUsers=%s", i, parts[i], want)
		}
	}
	if parts[2].name != "file" || parts[2].filename != "pkg.zip" || string(parts[2].data) != "zip" {
		t.Errorf("file part = %+v", parts[2])
	}
}
