// Package blame decodes the incremental line-attribution stream of git blame
// and runs the git subprocess that produces it.
package blame

import "strings"

// Metadata keys emitted by git blame --incremental.
const (
	KeyAuthor     = "author"
	KeyAuthorMail = "author-mail"
	KeyAuthorTime = "author-time"
	KeySummary    = "summary"
	KeyPrevious   = "previous"
	KeyBoundary   = "boundary"
	KeyFilename   = "filename"
)

// NotCommittedAuthor is the author git reports for lines that exist only in
// the working tree or index.
const NotCommittedAuthor = "Not Committed Yet"

// Record is one attribution unit: a run of Lines contiguous lines of the
// result file that came from Commit.
type Record struct {
	Meta       map[string]string
	Commit     string
	SourceLine int
	ResultLine int
	Lines      int
}

// Author returns the author name, or "" when the record carried none.
func (r *Record) Author() string {
	return r.Meta[KeyAuthor]
}

// AuthorMail returns the author e-mail without the surrounding angle brackets.
func (r *Record) AuthorMail() string {
	mail := r.Meta[KeyAuthorMail]
	mail = strings.TrimPrefix(mail, "<")

	return strings.TrimSuffix(mail, ">")
}

// Filename returns the path of the file the lines originate from. With copy
// detection enabled this may differ from the file being blamed.
func (r *Record) Filename() string {
	return r.Meta[KeyFilename]
}

// IsBoundary reports whether the commit is a boundary commit of the blamed range.
func (r *Record) IsBoundary() bool {
	_, ok := r.Meta[KeyBoundary]

	return ok
}

// IsUncommitted reports whether the record attributes working-tree content.
func (r *Record) IsUncommitted() bool {
	if r.Commit == "" {
		return false
	}

	return strings.Trim(r.Commit, "0") == ""
}
