// Package importer parses the alumni roster CSV uploaded by admins.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/alumni-api/internal/model"
)

// expected header, case insensitive
var columns = []string{"name", "roll_no", "batch", "branch"}

// earliestBatch is the founding year; rows use the same batch window
// registration enforces.
const earliestBatch = 2006

// ParseAlumniCSV reads the roster format: a header row of
// name,roll_no,batch,branch followed by one row per alumnus. Any bad row
// fails the whole parse with its line number so the admin can fix the file.
func ParseAlumniCSV(r io.Reader) ([]*model.AlumniRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if goerrors.Is(err, io.EOF) {
			return nil, badCSV("file is empty", 0)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "could not read CSV header").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := checkHeader(header); err != nil {
		return nil, err
	}

	records := []*model.AlumniRecord{}
	line := 1

	for {
		line++

		row, err := reader.Read()
		if goerrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, badCSV("malformed row", line)
		}

		record, err := parseRow(row, line)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, badCSV("file has a header but no rows", line)
	}

	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(columns) {
		return badCSV("header must be name,roll_no,batch,branch", 1)
	}

	for i, col := range columns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return badCSV("header must be name,roll_no,batch,branch", 1)
		}
	}

	return nil
}

func parseRow(row []string, line int) (*model.AlumniRecord, error) {
	if len(row) != len(columns) {
		return nil, badCSV("row must have 4 fields", line)
	}

	name := strings.TrimSpace(row[0])
	rollNo := strings.TrimSpace(row[1])
	branch := strings.TrimSpace(row[3])

	if name == "" || rollNo == "" || branch == "" {
		return nil, badCSV("name, roll_no, and branch are required", line)
	}

	batch, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, badCSV("batch must be a year", line)
	}

	if maxBatch := time.Now().Year() + 4; batch < earliestBatch || batch > maxBatch {
		return nil, badCSV(fmt.Sprintf("batch must be between %d and %d", earliestBatch, maxBatch), line)
	}

	return &model.AlumniRecord{
		Name:   name,
		RollNo: rollNo,
		Batch:  batch,
		Branch: branch,
	}, nil
}

func badCSV(msg string, line int) error {
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithTextCode("INVALID_CSV").
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"line": line})
}
