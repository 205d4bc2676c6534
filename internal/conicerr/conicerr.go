// Package conicerr implements the launcher's unified error taxonomy: a
// small set of tagged kinds, each wire-serialisable as {kind, message}
// the way a GUI shell consuming this core over IPC expects.
package conicerr

import (
	"encoding/json"
	"fmt"
)

// Kind tags the family an Error belongs to.
type Kind string

const (
	KindIO                          Kind = "Io"
	KindNetwork                     Kind = "Network"
	KindHTTPResponseNotSuccess      Kind = "HttpResponseNotSuccess"
	KindChecksumMismatch            Kind = "Sha1Missmatch"
	KindChunkLengthMismatch         Kind = "ChunkLengthMismatch"
	KindURLParse                    Kind = "UrlParse"
	KindJSONParse                   Kind = "JsonParse"
	KindInvalidVersionJSON          Kind = "InvalidVersionJson"
	KindVersionMetadataNotFound     Kind = "VersionMetadataNotfound"
	KindInstanceBroken              Kind = "InstanceBroken"
	KindNoSupportedJavaRuntime      Kind = "NoSupportedJavaRuntime"
	KindForgeInstallerFailed        Kind = "ForgeInstallerFailed"
	KindNeoForgedInstallerFailed    Kind = "NeoforgedInstallerFailed"
	KindAccountNotFound             Kind = "AccountNotfound"
	KindOwnershipCheckFailed        Kind = "OwnershipCheckFailed"
	KindProfileUnavailable          Kind = "ProfileUnavailable"
	KindMicrosoftResponseMissingKey Kind = "MicrosoftResponseMissingKey"
	KindAlreadyInstalling           Kind = "AlreadyInstalling"
	KindAlreadyInLaunching          Kind = "AlreadyInLaunching"
	KindAborted                     Kind = "Aborted"
)

// Error is the concrete tagged error every exported entry point returns.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// wireForm is the {kind, message} shape the spec requires on the wire.
type wireForm struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) MarshalJSON() ([]byte, error) {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return json.Marshal(wireForm{Kind: e.Kind, Message: msg})
}

func new_(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func IO(cause error) *Error {
	return new_(KindIO, cause, "i/o error")
}

func Network(cause error) *Error {
	return new_(KindNetwork, cause, "network error")
}

func HTTPResponseNotSuccess(status int, reason string) *Error {
	return new_(KindHTTPResponseNotSuccess, nil, "unexpected HTTP status %d: %s", status, reason)
}

func ChecksumMismatch(url string) *Error {
	return new_(KindChecksumMismatch, nil, "checksum mismatch for %s", url)
}

func ChunkLengthMismatch() *Error {
	return new_(KindChunkLengthMismatch, nil, "chunk length mismatch")
}

func URLParse(cause error) *Error {
	return new_(KindURLParse, cause, "failed to parse URL")
}

func JSONParse(cause error) *Error {
	return new_(KindJSONParse, cause, "failed to parse JSON")
}

func InvalidVersionJSON(field string) *Error {
	return new_(KindInvalidVersionJSON, nil, "invalid version JSON: missing or malformed %q", field)
}

func VersionMetadataNotFound(id string) *Error {
	return new_(KindVersionMetadataNotFound, nil, "version metadata not found: %s", id)
}

func InstanceBroken(reason string) *Error {
	return new_(KindInstanceBroken, nil, "instance broken: %s", reason)
}

func NoSupportedJavaRuntime() *Error {
	return new_(KindNoSupportedJavaRuntime, nil, "no supported Java runtime for this platform")
}

func ForgeInstallerFailed(cause error) *Error {
	return new_(KindForgeInstallerFailed, cause, "forge installer failed")
}

func NeoForgedInstallerFailed(cause error) *Error {
	return new_(KindNeoForgedInstallerFailed, cause, "neoforged installer failed")
}

func AccountNotFound(uuid string) *Error {
	return new_(KindAccountNotFound, nil, "account not found: %s", uuid)
}

func OwnershipCheckFailed() *Error {
	return new_(KindOwnershipCheckFailed, nil, "ownership check failed")
}

func ProfileUnavailable() *Error {
	return new_(KindProfileUnavailable, nil, "profile unavailable")
}

func MicrosoftResponseMissingKey(field string) *Error {
	return new_(KindMicrosoftResponseMissingKey, nil, "microsoft response missing key %q", field)
}

func AlreadyInstalling() *Error {
	return new_(KindAlreadyInstalling, nil, "an install is already running")
}

func AlreadyInLaunching() *Error {
	return new_(KindAlreadyInLaunching, nil, "a launch is already running")
}

func Aborted() *Error {
	return new_(KindAborted, nil, "operation aborted")
}

// As reports whether err is a *Error of the given kind.
func As(err error, kind Kind) bool {
	ce, ok := err.(*Error)
	if !ok {
		return false
	}
	return ce.Kind == kind
}
