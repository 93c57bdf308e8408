package response

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/beanbocchi/multipart/internal/model"
)

type CommonResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *model.Error `json:"error"`
}

// TypedResponse is CommonResponse with a concrete payload, used when decoding.
type TypedResponse[T any] struct {
	Data  T            `json:"data"`
	Error *model.Error `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func FromDTO(w http.ResponseWriter, status int, data any) error {
	return write(w, status, CommonResponse{Data: data})
}

func FromMessage(w http.ResponseWriter, status int, message string) error {
	return FromDTO(w, status, MessageResponse{Message: message})
}

// FromError renders err in the envelope. Only model errors are rendered as is,
// anything else becomes a generic internal error.
func FromError(w http.ResponseWriter, status int, err error) error {
	var modelErr model.Error
	if !errors.As(err, &modelErr) {
		modelErr = model.ErrInternal
	}
	rendered := model.Error{ErrCode: modelErr.ErrCode, Message: modelErr.Message}
	return write(w, status, CommonResponse{Error: &rendered})
}

func write(w http.ResponseWriter, status int, body CommonResponse) error {
	data, err := sonic.Marshal(body)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}
