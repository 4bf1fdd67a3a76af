// Package ingestion defines the request and response types of the
// document write API. Writes either change the store and rebuild the index
// before answering, or are queued on the document-ingest topic for the
// index consumer.
package ingestion

// Submission outcomes reported in Response.Status.
const (
	StatusIndexed = "INDEXED"
	StatusQueued  = "QUEUED"
)

// UpsertRequest is the JSON body accepted by PUT /api/v1/documents/{id}.
type UpsertRequest struct {
	Text string `json:"text"`
}

// Response is returned to the caller after a write is accepted.
type Response struct {
	DocumentID uint32 `json:"document_id"`
	Op         string `json:"op"`
	Status     string `json:"status"`
	// Generation is set once the write is visible to searches.
	Generation string `json:"generation,omitempty"`
}
