package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"iget-admin/internal/common/igetprotocol"
)

const CSVContentType = "text/csv"

var afaHeader = []string{
	"Reference",
	"Full Name",
	"Phone Number",
	"ID Type",
	"ID Number",
	"Date of Birth",
	"Occupation",
	"Location",
	"Capacity",
	"Price",
	"Status",
	"Date",
}

func AfaFileName(now time.Time) string {
	return fmt.Sprintf("afa-registrations-%s.csv", now.Format(time.DateOnly))
}

func WriteAfaCSV(w io.Writer, registrations []igetprotocol.AfaRegistration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(afaHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range registrations {
		if err := cw.Write(afaRecord(r)); err != nil {
			return fmt.Errorf("failed to write registration %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func afaRecord(r igetprotocol.AfaRegistration) []string {
	reference := r.OrderReference
	if reference == "" {
		reference = r.ID
	}
	date := ""
	if !r.CreatedAt.IsZero() {
		date = r.CreatedAt.Format(time.DateOnly)
	}
	return []string{
		reference,
		r.FullName,
		r.PhoneNumber,
		r.IDType,
		r.IDNumber,
		r.DateOfBirth,
		r.Occupation,
		r.Location,
		strconv.FormatFloat(r.Capacity, 'f', -1, 64),
		r.Price.StringFixed(2),
		r.Status,
		date,
	}
}
