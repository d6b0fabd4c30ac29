package encoder

import (
	"encoding/base64"
	"fmt"
	"io"
)

// EncodingError indicates the source image could not be read
type EncodingError struct {
	Cause error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to read image: %v", e.Cause)
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// EncodeDataURI reads the full image and returns it as a self-describing
// data URI (media type + base64 payload). The image is embedded verbatim;
// no resizing or compression happens at this layer.
func EncodeDataURI(r io.Reader, mediaType string) (string, error) {
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &EncodingError{Cause: err}
	}

	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data)), nil
}
