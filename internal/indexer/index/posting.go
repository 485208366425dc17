package index

// Status is a caller-assigned document status. It is opaque to ranking
// except through the filter predicate.
type Status int

const (
	StatusActual Status = iota
	StatusIrrelevant
	StatusBanned
	StatusRemoved
)

func (s Status) String() string {
	switch s {
	case StatusActual:
		return "ACTUAL"
	case StatusIrrelevant:
		return "IRRELEVANT"
	case StatusBanned:
		return "BANNED"
	case StatusRemoved:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "ACTUAL":
		return StatusActual, true
	case "IRRELEVANT":
		return StatusIrrelevant, true
	case "BANNED":
		return StatusBanned, true
	case "REMOVED":
		return StatusRemoved, true
	default:
		return 0, false
	}
}

// Document is one ranked search hit.
type Document struct {
	ID        int     `json:"id"`
	Relevance float64 `json:"relevance"`
	Rating    int     `json:"rating"`
}

// DocumentData is the per-document metadata kept by the index.
type DocumentData struct {
	Rating int
	Status Status
}

// Posting is one (document, term frequency) pair stored under a token.
type Posting struct {
	DocID         int     `json:"doc_id"`
	TermFrequency float64 `json:"tf"`
}

type PostingList []Posting

// TermEntry is a token with its postings ordered by document id.
type TermEntry struct {
	Term     string
	Postings PostingList
}
