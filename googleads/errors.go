package googleads

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is one entry of a GoogleAdsFailure.
type FieldError struct {
	Message string
	Fields  []string
}

// APIError is a failed Google Ads request.
type APIError struct {
	StatusCode int
	RequestID  string
	Status     string
	Errors     []FieldError
	Body       string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Request with ID '%s' failed with status '%s'\n", e.RequestID, e.Status)
	for _, fe := range e.Errors {
		fmt.Fprintf(&b, "\tError: %s\n", fe.Message)
		for _, f := range fe.Fields {
			fmt.Fprintf(&b, "\t\tField: %s\n", f)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type failureEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type      string `json:"@type"`
			RequestID string `json:"requestId"`
			Errors    []struct {
				Message  string `json:"message"`
				Location struct {
					FieldPathElements []struct {
						FieldName string `json:"fieldName"`
					} `json:"fieldPathElements"`
				} `json:"location"`
			} `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

func decodeFailure(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}
	var env failureEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		apiErr.Status = http.StatusText(statusCode)
		apiErr.Errors = []FieldError{{Message: strings.TrimSpace(string(body))}}
		return apiErr
	}

	apiErr.Status = env.Error.Status
	if apiErr.Status == "" {
		apiErr.Status = http.StatusText(statusCode)
	}
	for _, d := range env.Error.Details {
		if d.RequestID != "" {
			apiErr.RequestID = d.RequestID
		}
		for _, e := range d.Errors {
			fe := FieldError{Message: e.Message}
			for _, el := range e.Location.FieldPathElements {
				fe.Fields = append(fe.Fields, el.FieldName)
			}
			apiErr.Errors = append(apiErr.Errors, fe)
		}
	}
	if len(apiErr.Errors) == 0 && env.Error.Message != "" {
		apiErr.Errors = []FieldError{{Message: env.Error.Message}}
	}
	return apiErr
}
