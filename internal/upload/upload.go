// Package upload builds request bodies for Valence file-creating routes.
//
// Simple uploads are multipart/mixed: one JSON descriptor part followed by one
// or more file parts. A few routes take multipart/form-data instead.
package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"valence-go/internal/client"
)

// File is an upload descriptor. The caller owns Stream; it is read but never closed.
type File struct {
	// Descriptor is encoded as the JSON part of a simple upload.
	Descriptor any
	Stream     io.ReadSeeker
	Name       string
	// ContentType is the declared media type of the file bytes.
	ContentType string
}

// Validate checks that f exposes a stream, a name and a content type.
func (f *File) Validate() error {
	switch {
	case f == nil:
		return fmt.Errorf("%w: nil upload", client.ErrMalformedInput)
	case f.Stream == nil:
		return fmt.Errorf("%w: upload %q has no stream", client.ErrMalformedInput, f.Name)
	case f.Name == "":
		return fmt.Errorf("%w: upload has no file name", client.ErrMalformedInput)
	case f.ContentType == "":
		return fmt.Errorf("%w: upload %q has no content type", client.ErrMalformedInput, f.Name)
	}
	return nil
}

// bytes reads the whole stream, rewinding before and after.
func (f *File) bytes() ([]byte, error) {
	if _, err := f.Stream.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %q: %w", f.Name, err)
	}
	data, err := io.ReadAll(f.Stream)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", f.Name, err)
	}
	if _, err := f.Stream.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %q: %w", f.Name, err)
	}
	return data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Boundary returns a fresh 32 hex character boundary token.
func Boundary() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// EncodeSimple builds the multipart/mixed body of a simple upload from the
// file's descriptor and bytes.
func EncodeSimple(f *File) (*client.Body, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return encodeMixed(Boundary(), f.Descriptor, []*File{f}, func(int) string { return "" }, false)
}

// EncodeMixed builds a multipart/mixed body from a descriptor and any number
// of attachments, each named "file <index>".
func EncodeMixed(descriptor any, files []*File) (*client.Body, error) {
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}
	return encodeMixed(Boundary(), descriptor, files, func(i int) string { return "file " + strconv.Itoa(i) }, true)
}

// encodeMixed writes the descriptor part, then the file parts, then the
// terminator. In the multi-file layout every file part starts with CRLF,
// including the first; the simple layout has none before its single part.
func encodeMixed(boundary string, descriptor any, files []*File, name func(int) string, multi bool) (*client.Body, error) {
	desc, err := json.Marshal(descriptor)
	if err != nil {
		return nil, fmt.Errorf("encode upload descriptor: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString("Content-Type: application/json\r\n\r\n")
	buf.Write(desc)
	buf.WriteString("\r\n")

	for i, f := range files {
		data, err := f.bytes()
		if err != nil {
			return nil, err
		}
		if i > 0 || multi {
			buf.WriteString("\r\n")
		}
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString(`Content-Disposition: form-data; name="` + quoteEscaper.Replace(name(i)) +
			`"; filename="` + quoteEscaper.Replace(f.Name) + "\"\r\n")
		buf.WriteString("Content-Type: " + f.ContentType + "\r\n\r\n")
		buf.Write(data)
	}
	buf.WriteString("\r\n--" + boundary + "--")

	return &client.Body{
		Data:        buf.Bytes(),
		ContentType: "multipart/mixed;boundary=" + boundary,
	}, nil
}

// EncodeFormFile builds a multipart/form-data body with one file under field.
func EncodeFormFile(field string, f *File) (*client.Body, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return encodeForm(func(w *multipart.Writer) error {
		return writeFormFile(w, field, f)
	})
}

// EncodeImport builds the ePortfolio import form: one "targetUsers" part per
// user id followed by the package under "file".
func EncodeImport(userIDs []int, f *File) (*client.Body, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return encodeForm(func(w *multipart.Writer) error {
		for _, id := range userIDs {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", `form-data; name="targetUsers"`)
			h.Set("Content-Type", "text/plain")
			part, err := w.CreatePart(h)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(part, strconv.Itoa(id)); err != nil {
				return err
			}
		}
		return writeFormFile(w, "file", f)
	})
}

func writeFormFile(w *multipart.Writer, field string, f *File) error {
	data, err := f.bytes()
	if err != nil {
		return err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+quoteEscaper.Replace(field)+
		`"; filename="`+quoteEscaper.Replace(f.Name)+`"`)
	h.Set("Content-Type", f.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func encodeForm(fill func(*multipart.Writer) error) (*client.Body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(Boundary()); err != nil {
		return nil, fmt.Errorf("set boundary: %w", err)
	}
	if err := fill(w); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	return &client.Body{Data: buf.Bytes(), ContentType: w.FormDataContentType()}, nil
}
