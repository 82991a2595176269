// Package warnings contains typed values for the non-fatal conditions the
// feed loader can encounter. Callers can print them or assert on them in
// tests instead of grepping console output.
package warnings

import (
	"fmt"

	"github.com/jonathanzari/ACE-Analysts/constants"
)

type FeedWarning interface {
	// Feed is the name of the feed the warning refers to.
	Feed() string
	// File is the table the warning refers to.
	File() constants.TableFile
	Error() string
}

// TableAbsent reports that a requested table was not present in an archive.
type TableAbsent struct {
	FeedName string
	Table    constants.TableFile
}

func (w TableAbsent) Feed() string {
	return w.FeedName
}

func (w TableAbsent) File() constants.TableFile {
	return w.Table
}

func (w TableAbsent) Error() string {
	return fmt.Sprintf("%s missing in feed %q", w.Table, w.FeedName)
}

// TableMissingColumns reports that a table lacks columns the parser requires.
type TableMissingColumns struct {
	FeedName string
	Table    constants.TableFile
	Columns  []string
}

func (w TableMissingColumns) Feed() string {
	return w.FeedName
}

func (w TableMissingColumns) File() constants.TableFile {
	return w.Table
}

func (w TableMissingColumns) Error() string {
	return fmt.Sprintf("%s in feed %q is missing required columns %s", w.Table, w.FeedName, w.Columns)
}

// RowDropped reports a single row skipped because required values were
// missing or failed to cast.
type RowDropped struct {
	FeedName    string
	Table       constants.TableFile
	RowNumber   int
	MissingKeys []string
}

func (w RowDropped) Feed() string {
	return w.FeedName
}

func (w RowDropped) File() constants.TableFile {
	return w.Table
}

func (w RowDropped) Error() string {
	return fmt.Sprintf("skipping row %d of %s in feed %q because of missing values for %s",
		w.RowNumber, w.Table, w.FeedName, w.MissingKeys)
}

// ShapeTooShort reports a shape that had fewer than two points and so cannot
// form a line.
type ShapeTooShort struct {
	FeedName  string
	ShapeID   string
	NumPoints int
}

func (w ShapeTooShort) Feed() string {
	return w.FeedName
}

func (w ShapeTooShort) File() constants.TableFile {
	return constants.ShapesFile
}

func (w ShapeTooShort) Error() string {
	return fmt.Sprintf("skipping shape %q in feed %q because it has %d point(s)", w.ShapeID, w.FeedName, w.NumPoints)
}
