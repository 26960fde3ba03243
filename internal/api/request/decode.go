package request

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned when the body cannot be decoded
var ErrInvalidBody = errors.New("invalid request body")

// Validator is implemented by every request type
type Validator interface {
	Validate() error
}

// Decode fills dst from a flat JSON object or a form-encoded body, then validates it.
// Form fields are matched against dst's json tags.
func Decode(w http.ResponseWriter, r *http.Request, dst Validator) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := decodeForm(r, dst); err != nil {
			return ErrInvalidBody
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return ErrInvalidBody
		}
	}

	return dst.Validate()
}

func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseMultipartForm(MaxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}

	flat := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			flat[key] = values[0]
		}
	}

	data, err := json.Marshal(flat)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
