package model

// Upload is a recording received from a client. Data may be empty when only
// the identity of the file is known.
type Upload struct {
	Name string
	Size int64
	MIME string
	Data []byte
}

// AnalysisRequest is the transport-independent form of an analyze call.
// At most one of Transcript and Upload is set; neither means baseline.
type AnalysisRequest struct {
	Field      string
	UserID     string
	Transcript *string
	Upload     *Upload
}

// AnalysisTask is the unit of work queued for an asynchronous analysis.
type AnalysisTask struct {
	JobID   string
	Request AnalysisRequest
}
