package backend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
)

const (
	networkErrorMessage    = "서버에 연결하지 못했습니다. 잠시 후 다시 시도해주세요."
	validationListMessage  = "입력값 형식을 확인해주세요."
	malformedReplyMessage  = "서버 응답 형식이 올바르지 않습니다."
	genericErrorMessageFmt = "요청 처리에 실패했습니다. (%d)"
)

// Classify maps a failed HTTP response to a user-facing error state. Body
// parsing is best-effort: a {"detail": ...} object is honored when detail is a
// string or a non-empty list, anything else falls back to a generic message
// carrying the status code.
func Classify(status int, body []byte) domain.ErrorState {
	return domain.ErrorState{
		Kind:    kindForStatus(status),
		Message: messageFromBody(status, body),
	}
}

func kindForStatus(status int) domain.ErrorKind {
	switch {
	case status == http.StatusUnprocessableEntity:
		return domain.ErrorKindValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.ErrorKindAuth
	case status >= 500:
		return domain.ErrorKindServer
	default:
		return domain.ErrorKindRequest
	}
}

func messageFromBody(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil && detail != "" {
			return detail
		}
		var list []json.RawMessage
		if json.Unmarshal(payload.Detail, &list) == nil && len(list) > 0 {
			return validationListMessage
		}
	}
	return fmt.Sprintf(genericErrorMessageFmt, status)
}

// NetworkError is the fixed error state for transport failures that never
// produced a response. Status-code logic does not apply.
func NetworkError() domain.ErrorState {
	return domain.ErrorState{Kind: domain.ErrorKindNetwork, Message: networkErrorMessage}
}

// MalformedReplyError covers 2xx responses that violate the success contract.
func MalformedReplyError() domain.ErrorState {
	return domain.ErrorState{Kind: domain.ErrorKindServer, Message: malformedReplyMessage}
}
