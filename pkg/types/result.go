package types

// ResultStatus is the state of a streamed repository read.
type ResultStatus string

const (
	ResultLoading ResultStatus = "loading"
	ResultSuccess ResultStatus = "success"
	ResultError   ResultStatus = "error"
)

// MedicationsResult is the tri-state envelope emitted while reading a
// patient's medications. Consumers treat loading as a no-op intermediate
// state; the error message is passed through to the caller unchanged.
type MedicationsResult struct {
	Status      ResultStatus  `json:"status"`
	Medications []*Medication `json:"medications,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// LoadingResult returns the intermediate loading envelope.
func LoadingResult() MedicationsResult {
	return MedicationsResult{Status: ResultLoading}
}

// SuccessResult wraps a successful read.
func SuccessResult(meds []*Medication) MedicationsResult {
	return MedicationsResult{Status: ResultSuccess, Medications: meds}
}

// ErrorResult wraps a failed read.
func ErrorResult(message string) MedicationsResult {
	return MedicationsResult{Status: ResultError, Message: message}
}
