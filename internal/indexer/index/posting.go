package index

import "github.com/RoaringBitmap/roaring/v2"

// Posting records every position of a term inside one document.
type Posting struct {
	DocID     uint32 `json:"doc_id"`
	Frequency int    `json:"frequency"`
	Positions []int  `json:"positions"`
}

type PostingList []Posting

// TermEntry is one vocabulary entry of a Snapshot.
type TermEntry struct {
	Term     string      `json:"term"`
	Postings PostingList `json:"postings"`
}

// NewDocSet returns a document-id set holding ids.
func NewDocSet(ids ...uint32) *roaring.Bitmap {
	return roaring.BitmapOf(ids...)
}

// DocIDs returns the ids of set in ascending order. A nil set yields an
// empty slice.
func DocIDs(set *roaring.Bitmap) []uint32 {
	if set == nil {
		return []uint32{}
	}
	return set.ToArray()
}
