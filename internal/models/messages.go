package models

import "encoding/json"

// Request is one inbound protocol message. Only the fields relevant to
// Action are read.
type Request struct {
	Action   string `json:"action"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	ToUser   string `json:"to_user,omitempty"`
	FromUser string `json:"from_user,omitempty"`
	Friend   string `json:"friend,omitempty"`
	Other    string `json:"other_user,omitempty"`
	Query    string `json:"query,omitempty"`
	// nil means "leave unchanged", "" means "clear".
	Description *string `json:"description,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Payload carries the action-specific fields of a successful response.
type Payload map[string]any

// Response is one outbound protocol message. Payload keys are written at
// the top level of the JSON object, next to status and message.
type Response struct {
	Status    string
	Message   string
	ErrorKind string
	ErrorCode string
	Payload   Payload
}

// Success builds a success response.
func Success(message string, payload Payload) Response {
	return Response{Status: StatusSuccess, Message: message, Payload: payload}
}

// Failure builds an error response.
func Failure(kind, code, message string) Response {
	return Response{Status: StatusError, Message: message, ErrorKind: kind, ErrorCode: code}
}

func (r Response) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Payload)+4)
	for k, v := range r.Payload {
		out[k] = v
	}
	out["status"] = r.Status
	if r.Message != "" {
		out["message"] = r.Message
	}
	if r.ErrorKind != "" {
		out["error_kind"] = r.ErrorKind
	}
	if r.ErrorCode != "" {
		out["error_code"] = r.ErrorCode
	}
	return json.Marshal(out)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Response{}
	for key, dst := range map[string]*string{
		"status":     &r.Status,
		"message":    &r.Message,
		"error_kind": &r.ErrorKind,
		"error_code": &r.ErrorCode,
	} {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return err
			}
			delete(raw, key)
		}
	}
	if len(raw) > 0 {
		r.Payload = make(Payload, len(raw))
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return err
			}
			r.Payload[k] = val
		}
	}
	return nil
}
