package code

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCode is the error type returned across service boundaries. The web
// layer reads Status and Kind to build the response.
type ErrCode struct {
	Code   int
	Status int
	Kind   string
	Msg    string
	err    error
}

func newErr(c, status int, kind, msg string) *ErrCode {
	return &ErrCode{Code: c, Status: status, Kind: kind, Msg: msg}
}

func (e *ErrCode) Error() string {
	if e.err != nil {
		return fmt.Sprintf("code: %d, kind: %s, msg: %s, err: %v", e.Code, e.Kind, e.Msg, e.err)
	}
	return fmt.Sprintf("code: %d, kind: %s, msg: %s", e.Code, e.Kind, e.Msg)
}

func (e *ErrCode) Unwrap() error { return e.err }

// Is matches any ErrCode carrying the same code, so errors.Is(err,
// code.DuplicateBarcode) holds for copies made by WithMsg/WithErr.
func (e *ErrCode) Is(target error) bool {
	t, ok := target.(*ErrCode)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *ErrCode) WithMsg(msg string) *ErrCode {
	c := *e
	c.Msg = msg
	return &c
}

func (e *ErrCode) WithMsgf(format string, args ...any) *ErrCode {
	return e.WithMsg(fmt.Sprintf(format, args...))
}

func (e *ErrCode) WithErr(err error) *ErrCode {
	c := *e
	c.err = err
	return &c
}

// From converts any error into an ErrCode, falling back to UnDefineErr.
func From(err error) *ErrCode {
	if err == nil {
		return nil
	}
	var c *ErrCode
	if errors.As(err, &c) {
		return c
	}
	return UnDefineErr.WithErr(err)
}

var (
	Success = newErr(0, http.StatusOK, "ok", "success")

	UnDefineErr  = newErr(1000, http.StatusInternalServerError, "internal_error", "internal error")
	ParamErr     = newErr(1001, http.StatusBadRequest, "invalid_payload", "invalid request payload")
	InvalidDate  = newErr(1002, http.StatusBadRequest, "invalid_date", "sampleDate must be YYYY-MM-DD")
	InvalidTime  = newErr(1003, http.StatusBadRequest, "invalid_time", "sampleTime must be HH:MM or HH:MM:SS")
	MissingField = newErr(1004, http.StatusUnprocessableEntity, "missing_field", "required field missing")

	DuplicateBarcode    = newErr(2001, http.StatusConflict, "duplicate_barcode", "barcode already in use")
	ParentNotFound      = newErr(2002, http.StatusNotFound, "parent_not_found", "parent sample not found")
	SampleNotFound      = newErr(2003, http.StatusNotFound, "sample_not_found", "sample not found")
	InvalidCatalogValue = newErr(2004, http.StatusUnprocessableEntity, "invalid_catalog_value", "value not in catalog")
	CatalogKindNotFound = newErr(2005, http.StatusNotFound, "catalog_kind_not_found", "unknown catalog kind")
	BarcodeUnavailable  = newErr(2006, http.StatusServiceUnavailable, "barcode_unavailable", "barcode allocation unavailable")
	BarcodeExhausted    = newErr(2007, http.StatusConflict, "barcode_exhausted", "next barcode exceeds the stored width")

	QueryRecordErr = newErr(3001, http.StatusInternalServerError, "storage_error", "query record failed")
	CreateDataErr  = newErr(3002, http.StatusInternalServerError, "storage_error", "create record failed")

	NotifyActionAlreadyRegistryErr = newErr(4001, http.StatusInternalServerError, "internal_error", "notify action already registered")
	NotifySendMsgErr               = newErr(4002, http.StatusInternalServerError, "internal_error", "send notify msg failed")
	NotifyClosedErr                = newErr(4003, http.StatusInternalServerError, "internal_error", "notify center closed")

	RPCHttpErr     = newErr(5001, http.StatusBadGateway, "remote_error", "request to server failed")
	RPCHttpCodeErr = newErr(5002, http.StatusBadGateway, "remote_error", "server rejected request")
)
