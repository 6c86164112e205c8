package dispatch

import "fmt"

// UnsupportedBodyFormatError is returned for a body_format no encoder handles.
type UnsupportedBodyFormatError struct {
	Format string
}

func (e *UnsupportedBodyFormatError) Error() string {
	return fmt.Sprintf("unsupported body format '%s' (supported: json, query, form_params, multipart)", e.Format)
}

// InvalidHeaderError is returned when a resolved header cannot be sent.
type InvalidHeaderError struct {
	Name  string
	Value string
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid header '%s'", e.Name)
}

// ResponseTooLargeError is returned when a response body exceeds the configured limit.
type ResponseTooLargeError struct {
	Limit int64
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeds %d bytes", e.Limit)
}
