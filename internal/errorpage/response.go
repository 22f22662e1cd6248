package errorpage

import (
	"net/http"
	"strconv"

	"errpage-service/internal/domain"
)

// Content types written by error responses.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Response is a fully assembled error response.
type Response struct {
	Status      int
	Header      http.Header
	Body        []byte
	ContentType string
}

// Build assembles the response for a classified error and lookup result.
func Build(ce domain.ClassifiedError, res Result) Response {
	header := ce.Headers.Clone()
	if header == nil {
		header = http.Header{}
	}

	resp := Response{Status: ce.Status, Header: header}

	switch res.Kind {
	case Found:
		resp.Body = res.Body
		resp.ContentType = ContentTypeHTML
	case ReadFailed:
		msg := "unreadable error page"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		resp.Body = []byte("Oops: " + msg)
		resp.ContentType = ContentTypeText
	default:
		resp.Body = []byte(ce.Text())
		resp.ContentType = ContentTypeText
	}

	return resp
}

// Write sends the response.
func (r Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range r.Header {
		h[k] = append([]string(nil), vs...)
	}
	h.Set("Content-Type", r.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(r.Body)))

	status := r.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.WriteHeader(status)

	_, err := w.Write(r.Body)
	return err
}
