package storage

import (
	"encoding/json"
	"os"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
	"github.com/rohmanhakim/list-crawler/pkg/fileutil"
)

/*
Append-only record streams. One JSONL line per record, flushed by the
operating system on write; records are never rewritten, so partial
results from an interrupted run remain valid and queryable.
*/

// Sink persists discovered items and page-visit records.
type Sink interface {
	WriteItem(item Item) failure.ClassifiedError
	WritePageVisit(visit PageVisit) failure.ClassifiedError
	Close() error
}

// JSONLSink appends records to two JSONL files.
type JSONLSink struct {
	itemsFile *os.File
	pagesFile *os.File
}

func NewJSONLSink(itemsPath, pagesPath string) (*JSONLSink, failure.ClassifiedError) {
	itemsFile, err := fileutil.OpenAppend(itemsPath)
	if err != nil {
		return nil, &SinkError{
			Message: err.Error(),
			Cause:   ErrCauseOpenFailed,
			Path:    itemsPath,
		}
	}

	pagesFile, err := fileutil.OpenAppend(pagesPath)
	if err != nil {
		itemsFile.Close()
		return nil, &SinkError{
			Message: err.Error(),
			Cause:   ErrCauseOpenFailed,
			Path:    pagesPath,
		}
	}

	return &JSONLSink{
		itemsFile: itemsFile,
		pagesFile: pagesFile,
	}, nil
}

func (s *JSONLSink) WriteItem(item Item) failure.ClassifiedError {
	return appendRecord(s.itemsFile, item)
}

func (s *JSONLSink) WritePageVisit(visit PageVisit) failure.ClassifiedError {
	return appendRecord(s.pagesFile, visit)
}

func (s *JSONLSink) Close() error {
	itemsErr := s.itemsFile.Close()
	pagesErr := s.pagesFile.Close()
	if itemsErr != nil {
		return itemsErr
	}
	return pagesErr
}

func appendRecord(f *os.File, record any) failure.ClassifiedError {
	line, err := json.Marshal(record)
	if err != nil {
		return &SinkError{
			Message: err.Error(),
			Cause:   ErrCauseEncodeFailure,
			Path:    f.Name(),
		}
	}
	line = append(line, '\n')

	if _, err := f.Write(line); err != nil {
		return &SinkError{
			Message: err.Error(),
			Cause:   ErrCauseWriteFailure,
			Path:    f.Name(),
		}
	}
	return nil
}

// DiscardSink drops every record. It backs dry runs, where extraction
// and resolution still happen but nothing may touch disk.
type DiscardSink struct{}

func NewDiscardSink() DiscardSink { return DiscardSink{} }

func (DiscardSink) WriteItem(Item) failure.ClassifiedError           { return nil }
func (DiscardSink) WritePageVisit(PageVisit) failure.ClassifiedError { return nil }
func (DiscardSink) Close() error                                     { return nil }
