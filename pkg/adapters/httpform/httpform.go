// Package httpform posts multipart forms and JSON bodies for the HTTP
// publishers and reads back size-limited responses.
package httpform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultTimeout bounds a single request including the upload body.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of a response body is kept.
const maxResponseBytes = 1 << 20

// NewClient returns a pooled client from go-cleanhttp with DefaultTimeout.
func NewClient() *http.Client {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = DefaultTimeout
	return client
}

// File is one file part of a form.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is an ordered multipart form.
type Form struct {
	fields [][2]string
	files  []File
}

// Field appends a text field.
func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

// File appends a file part.
func (f *Form) File(file File) *Form {
	f.files = append(f.files, file)
	return f
}

// Encode writes the form and returns the body with its content type.
func (f *Form) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// PostForm sends the form to url.
func PostForm(ctx context.Context, client *http.Client, url string, form *Form) (*Response, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	return post(ctx, client, url, contentType, body)
}

// PostJSON marshals v and sends it to url.
func PostJSON(ctx context.Context, client *http.Client, url string, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return post(ctx, client, url, "application/json", body)
}

func post(ctx context.Context, client *http.Client, url, contentType string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
