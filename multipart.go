package oauthaccess

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
)

// File is one attachment for a multipart OAuth2 POST.
type File struct {
	Field    string // form field name
	Name     string // filename reported to the provider
	Content  []byte
	MIMEType string // optional; multipart's default when empty
}

// encodeMultipart builds a multipart/form-data body from plain fields and
// file attachments, returning the content type with its boundary.
func encodeMultipart(fields url.Values, files []File) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, vals := range fields {
		for _, v := range vals {
			if err := w.WriteField(key, v); err != nil {
				return "", nil, fmt.Errorf("write field %s: %w", key, err)
			}
		}
	}

	for _, file := range files {
		var (
			part io.Writer
			err  error
		)
		if file.MIMEType == "" {
			part, err = w.CreateFormFile(file.Field, file.Name)
		} else {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))
			h.Set("Content-Type", file.MIMEType)
			part, err = w.CreatePart(h)
		}
		if err != nil {
			return "", nil, fmt.Errorf("write file %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return "", nil, fmt.Errorf("write file %s: %w", file.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("finish multipart body: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
