// Package gendata writes synthetic employee CSV files for trying out loads
// and for performance testing.
package gendata

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

var departments = []string{
	"Engineering", "Sales", "Marketing", "HR", "Finance",
	"Product", "Operations", "Data Science", "Design", "Legal",
}

var levels = []string{"Junior", "Mid-Level", "Senior", "Lead", "Principal", "Director"}

var cities = []string{
	"New York", "San Francisco", "Chicago", "Los Angeles", "Boston",
	"Seattle", "Austin", "Denver", "Miami", "Portland", "Atlanta",
	"Dallas", "Houston", "Phoenix", "Minneapolis", "Detroit",
}

var occupations = map[string][]string{
	"Engineering":  {"Software Engineer", "DevOps Engineer", "System Architect"},
	"Sales":        {"Sales Representative", "Account Manager", "Sales Director"},
	"Marketing":    {"Marketing Specialist", "Content Manager", "Brand Manager"},
	"HR":           {"HR Specialist", "Recruiter", "HR Manager"},
	"Finance":      {"Financial Analyst", "Accountant", "Controller"},
	"Product":      {"Product Manager", "Product Owner", "Product Director"},
	"Operations":   {"Operations Manager", "Business Analyst", "Project Manager"},
	"Data Science": {"Data Scientist", "ML Engineer", "Data Analyst"},
	"Design":       {"UX Designer", "UI Designer", "Product Designer"},
	"Legal":        {"Legal Counsel", "Compliance Officer", "Contract Manager"},
}

// Options controls generation.
type Options struct {
	// Records is how many rows to write.
	Records int

	// Seed feeds the random source so runs are reproducible.
	Seed int64

	// Delimiter defaults to comma.
	Delimiter rune
}

// Header is the column order of generated files.
var Header = []string{"id", "name", "age", "city", "department", "level", "salary", "occupation"}

// Write streams opt.Records synthetic employee rows to w as delimited text
// with a header row.
func Write(w io.Writer, opt Options) error {
	if opt.Records <= 0 {
		return fmt.Errorf("gendata: record count must be positive, got %d", opt.Records)
	}

	rng := rand.New(rand.NewSource(opt.Seed))

	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("gendata: write header: %w", err)
	}

	row := make([]string, len(Header))
	for i := 1; i <= opt.Records; i++ {
		dept := departments[rng.Intn(len(departments))]
		jobs := occupations[dept]

		// Salaries are normally distributed around 90k with a 20k spread.
		salary := int(rng.NormFloat64()*20000 + 90000)

		row[0] = strconv.Itoa(i)
		row[1] = fmt.Sprintf("Employee_%d", i)
		row[2] = strconv.Itoa(22 + rng.Intn(43)) // ages 22 through 64
		row[3] = cities[rng.Intn(len(cities))]
		row[4] = dept
		row[5] = levels[rng.Intn(len(levels))]
		row[6] = strconv.Itoa(salary)
		row[7] = jobs[rng.Intn(len(jobs))]

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("gendata: write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("gendata: flush: %w", err)
	}
	return nil
}

// WriteFile generates into path, creating parent directories as needed.
func WriteFile(path string, opt Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("gendata: create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gendata: create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, opt); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("gendata: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("gendata: close %s: %w", path, err)
	}
	return nil
}
