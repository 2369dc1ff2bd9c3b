package ingestion

import (
	"regexp"

	"github.com/poiesic/answerit/core"
)

// socialPostPattern recognizes links to posts on twitter.com or x.com.
// The first full match is stored verbatim as the reference URL.
var socialPostPattern = regexp.MustCompile(`https?://(www\.)?(twitter\.com|x\.com)/\w+/status/\d+`)

// Classify assigns a content type to a source record. It is a pure
// function of the record's text and origin: it performs no I/O, never
// fails, and must produce the same result on every re-ingestion.
//
// File-origin records are always stored files, regardless of text.
// Message text matching the social post pattern becomes a social post;
// everything else, including empty text, is a plain chat message.
func Classify(record core.SourceRecord) core.ClassifiedRecord {
	classified := core.ClassifiedRecord{
		SourceRecord: record,
		Type:         core.ContentTypeMessage,
	}

	if record.Origin == core.OriginFile {
		classified.Type = core.ContentTypeFile
		return classified
	}

	if url := socialPostPattern.FindString(record.Text); url != "" {
		classified.Type = core.ContentTypeSocialPost
		classified.ReferenceURL = url
	}

	return classified
}
