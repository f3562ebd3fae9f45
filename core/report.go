// Copyright 2025 The Vault AI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

const (
	// ReportMessageAllSucceeded is the batch summary when every file in an
	// upload batch was processed.
	ReportMessageAllSucceeded = "All files uploaded and processed successfully"

	// ReportMessageSomeFailed is the batch summary when at least one file
	// in an upload batch failed.
	ReportMessageSomeFailed = "Some files failed to upload and process"
)

// IngestionReport is the per-batch ingestion outcome. It is built
// incrementally while a batch is processed and must not be mutated once
// returned to the caller.
type IngestionReport struct {
	Message             string            `json:"message"`
	NumFilesSucceeded   int               `json:"numFilesSucceeded"`
	NumFilesFailed      int               `json:"numFilesFailed"`
	SuccessfulFileNames []string          `json:"successfulFileNames"`
	FailedFileNames     map[string]string `json:"failedFileNames"`
}

// NewIngestionReport creates an empty report.
func NewIngestionReport() *IngestionReport {
	return &IngestionReport{
		SuccessfulFileNames: []string{},
		FailedFileNames:     map[string]string{},
	}
}

// RecordSuccess marks a file as fully processed.
func (r *IngestionReport) RecordSuccess(filename string) {
	r.NumFilesSucceeded++
	r.SuccessfulFileNames = append(r.SuccessfulFileNames, filename)
}

// RecordFailure attributes a failure reason to a file.
func (r *IngestionReport) RecordFailure(filename, reason string) {
	r.NumFilesFailed++
	r.FailedFileNames[filename] = reason
}

// Finalize sets the batch summary message. Call once, after the last file.
func (r *IngestionReport) Finalize() {
	if r.NumFilesFailed > 0 {
		r.Message = ReportMessageSomeFailed
	} else {
		r.Message = ReportMessageAllSucceeded
	}
}
