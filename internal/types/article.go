package types

// Article is one extracted, filtered, time-normalized news item. URL is the
// canonical link and the deduplication key; OriginalURL is the link as it
// appeared on the listing page before cleaning and may equal URL.
type Article struct {
	Title       string `json:"title"                  bson:"title"`
	Time        string `json:"time"                   bson:"time"`
	Img         string `json:"img"                    bson:"img"`
	URL         string `json:"url"                    bson:"url"`
	OriginalURL string `json:"original_url"           bson:"original_url"`
	Summary     string `json:"summary,omitempty"      bson:"summary,omitempty"`
}

// DateBucket groups the articles discovered for one calendar day.
// Buckets are append-only: articles are never removed or rewritten.
type DateBucket struct {
	Date     string    `json:"date"`
	Articles []Article `json:"articles"`
}

// Candidate is an unprocessed listing fragment representing one potential
// article, prior to field extraction. A candidate is owned by exactly one
// worker task during a batch and discarded afterwards.
type Candidate struct {
	// Source names the adapter profile that produced this candidate.
	Source string

	// Title is the teaser headline text.
	Title string

	// Link is the absolute, canonicalized article URL.
	Link string

	// OriginalLink is the absolute URL exactly as found on the listing page.
	OriginalLink string

	// RawTime is the unparsed timestamp string, if the listing carries one.
	RawTime string

	// Img is the absolute thumbnail URL, if present on the listing.
	Img string

	// Summary is the teaser/lead text, if present on the listing.
	Summary string
}
