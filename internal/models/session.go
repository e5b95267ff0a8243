package models

// SessionState 测量会话状态
type SessionState string

const (
	StateIdle         SessionState = "idle"
	StateInitializing SessionState = "initializing"
	StateCalibrating  SessionState = "calibrating"
	StateMeasuring    SessionState = "measuring"
	StatePaused       SessionState = "paused"
	StateError        SessionState = "error"
)

// ErrorCode 错误回调使用的错误码
type ErrorCode string

const (
	ErrCodeInvalidAPIKey      ErrorCode = "INVALID_API_KEY"
	ErrCodeCameraAccessDenied ErrorCode = "CAMERA_ACCESS_DENIED"
	ErrCodeNoFaceDetected     ErrorCode = "NO_FACE_DETECTED"
	ErrCodePoorLighting       ErrorCode = "POOR_LIGHTING"
	ErrCodeExcessiveMotion    ErrorCode = "EXCESSIVE_MOTION"
	ErrCodeSDKInitFailed      ErrorCode = "SDK_INIT_FAILED"
	ErrCodeMeasurementFailed  ErrorCode = "MEASUREMENT_FAILED"
	ErrCodeNetworkError       ErrorCode = "NETWORK_ERROR"
	ErrCodeUnknown            ErrorCode = "UNKNOWN"
)

// SessionError 通过错误回调传递的会话错误
type SessionError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *SessionError) Error() string {
	return string(e.Code) + ": " + e.Message
}
