package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

type Parameter map[string]string

func (p Parameter) ToReader() (io.Reader, string, error) {
	return bytes.NewBufferString(p.Encode()), "application/x-www-form-urlencoded", nil
}

func (p Parameter) Encode() string {
	var parameters []string
	for key, value := range p {
		parameters = append(parameters, key+"="+PercentEncode(value))
	}
	sort.Strings(parameters)
	return strings.Join(parameters, "&")
}

type JSON map[string]any

func (j JSON) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewBuffer(b), "application/json", nil
}

type Response struct {
	Code    int
	Header  http.Header
	RawBody []byte
}

func (r *Response) IsSuccess() bool {
	return r.Code >= http.StatusOK && r.Code < http.StatusMultipleChoices
}

// Decode unmarshals a successful json response into v.
func (r *Response) Decode(v any) error {
	if !r.IsSuccess() {
		return fmt.Errorf("unexpected status code %d: %s", r.Code, truncate(r.RawBody, 256))
	}

	if err := json.Unmarshal(r.RawBody, v); err != nil {
		return fmt.Errorf("cannot decode response body: %w", err)
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}

	return string(b[:n]) + "..."
}
