package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/postdeck/postdeck/internal/transfer"
)

const csvTimeLayout = "2006-01-02 15:04"

type BulkService interface {
	ParseCSV(data []byte) ([]*transfer.BulkDraft, error)
}

type bulkService struct{}

func NewBulkService() BulkService {
	return &bulkService{}
}

// ParseCSV turns an uploaded schedule file into draft posts. The file is
// a header line followed by rows of the form
//
//	content,date,time,platform1;platform2
//
// with date as 2006-01-02 and time as 15:04. Plain comma splitting, no
// quoting: that is the published import contract. Any malformed row
// fails the whole import.
func (s *bulkService) ParseCSV(data []byte) ([]*transfer.BulkDraft, error) {
	lines := strings.Split(string(data), "\n")

	var rows []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			rows = append(rows, line)
		}
	}

	if len(rows) < 2 {
		err := fmt.Errorf("%w: no rows after the header line", ErrParse)
		slog.Info(err.Error())
		return nil, err
	}

	var drafts []*transfer.BulkDraft
	for i, row := range rows[1:] {
		fields := strings.Split(row, ",")
		if len(fields) != 4 {
			err := fmt.Errorf("%w: row %d has %d fields, want 4", ErrParse, i+1, len(fields))
			slog.Info(err.Error())
			return nil, err
		}

		content := strings.TrimSpace(fields[0])
		date := strings.TrimSpace(fields[1])
		clock := strings.TrimSpace(fields[2])
		platformsList := strings.TrimSpace(fields[3])

		scheduledFor, err := time.Parse(csvTimeLayout, date+" "+clock)
		if err != nil {
			err = fmt.Errorf("%w: row %d has an invalid date or time", ErrParse, i+1)
			slog.Info(err.Error())
			return nil, err
		}

		var names []string
		for _, p := range strings.Split(platformsList, ";") {
			names = append(names, strings.ToLower(strings.TrimSpace(p)))
		}

		id, err := gonanoid.New()
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}

		drafts = append(drafts, &transfer.BulkDraft{
			ID:           id,
			Content:      content,
			ScheduledFor: scheduledFor.Format(scheduledForLayout),
			Platforms:    names,
		})
	}

	return drafts, nil
}
