package errs

const (
	BizCodeInvalidParams = 1001

	BizCodeNotFound            = 8001
	BizCodeNetworkFailure      = 8002
	BizCodeExtractionFailure   = 8003
	BizCodePartialFailure      = 8004
	BizCodePersistenceFailure  = 8005
	BizCodePreconditionFailure = 8006
	BizCodeInvalidChannel      = 8007
)
