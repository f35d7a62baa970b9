package response

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"posadmin/internal/apperr"
)

// Catalog of user-facing messages. Raw failure detail never reaches the
// caller; it goes to the log sink only.
const (
	MsgQuery      = "query executed successfully"
	MsgQueryEmpty = "no records found"
	MsgSaved      = "record saved successfully"
	MsgUpdated    = "record updated successfully"
	MsgDeleted    = "record deleted successfully"
	MsgValidation = "invalid request"
	MsgNotFound   = "record not found"
	MsgNotAllowed = "method not allowed"
	MsgFailed     = "operation failed"
	MsgUnexpected = "an unexpected error occurred"
)

// Envelope is the uniform wrapper every read and write operation returns.
type Envelope[T any] struct {
	IsSuccess    bool   `json:"isSuccess"`
	Message      string `json:"message"`
	Data         T      `json:"data"`
	TotalRecords *int   `json:"totalRecords,omitempty"`
}

// OK wraps a successful payload.
func OK[T any](data T, msg string) Envelope[T] {
	return Envelope[T]{IsSuccess: true, Message: msg, Data: data}
}

// OKCount wraps a successful listing payload with its pre-pagination total.
func OKCount[T any](data T, msg string, total int) Envelope[T] {
	return Envelope[T]{IsSuccess: true, Message: msg, Data: data, TotalRecords: &total}
}

// Fail translates err into a failure envelope with the catalog message for
// its kind, leaving Data at the zero value, and writes the wrapped detail
// to the log sink. This is the single translation point for the whole API.
func Fail[T any](err error) Envelope[T] {
	logDetail(err)
	return Envelope[T]{IsSuccess: false, Message: MessageFor(err)}
}

// MessageFor maps an error kind to its catalog message.
func MessageFor(err error) string {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return MsgValidation
	case apperr.NotFound:
		return MsgNotFound
	case apperr.Persistence, apperr.Storage:
		return MsgFailed
	default:
		return MsgUnexpected
	}
}

// HTTPStatus maps an error kind to the status the transport should use.
func HTTPStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return 400
	case apperr.NotFound:
		return 404
	default:
		return 500
	}
}

var (
	sinkMu sync.Mutex
	sink   io.Writer = os.Stderr
)

// SetLogSink redirects failure detail, primarily for tests.
func SetLogSink(w io.Writer) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sink = w
}

func logDetail(err error) {
	if err == nil {
		return
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": "error",
		"msg":   "operation_failed",
		"kind":  apperr.KindOf(err).String(),
		"error": err.Error(),
	}
	if op := apperr.OpOf(err); op != "" {
		entry["op"] = op
	}

	sinkMu.Lock()
	defer sinkMu.Unlock()
	_ = json.NewEncoder(sink).Encode(entry)
}
