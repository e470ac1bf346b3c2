package server

type Response struct {
	Status int
	Body   any
}

type ErrorResponse struct {
	Status   int    `json:"-"`
	ErrorMsg string `json:"error_msg"`
}

func (e *ErrorResponse) AsResponse() Response {
	return Response{
		Status: e.Status,
		Body:   e,
	}
}

// RawResponse carries a body that is already encoded, such as a
// GeoJSON, WKT or WKB geometry export, with its content type.
type RawResponse struct {
	Status      int
	ContentType string
	Body        []byte
}
