package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/noah-isme/award-tracker/internal/models"
	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
)

// Canonical table names. They double as the data file stems and as the
// table argument of the authentication contract.
const (
	TableStaff        = "StaffTable"
	TableStudentLogin = "StudentLoginTable"
	TableStudent      = "StudentTable"
	TableSection      = "SectionTable"
	TableResource     = "ResourceTable"
)

// Store is the aggregate owner of all record tables. It is constructed once
// at process start and passed by reference to every component that needs
// it; relationships between records are resolved exclusively through its
// query helpers.
type Store struct {
	Staff     *Table[string, models.Staff]
	Logins    *Table[string, models.StudentLogin]
	Students  *Table[int, models.Student]
	Sections  *Table[int, models.Section]
	Resources *Table[int, models.Resource]

	logger *zap.Logger
}

// New returns a Store with empty tables.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		Staff:     NewTable[string, models.Staff](TableStaff),
		Logins:    NewTable[string, models.StudentLogin](TableStudentLogin),
		Students:  NewTable[int, models.Student](TableStudent),
		Sections:  NewTable[int, models.Section](TableSection),
		Resources: NewTable[int, models.Resource](TableResource),
		logger:    logger,
	}
}

// TableInfo is the name-indexed view of a table, for callers that address
// tables by name rather than by type.
type TableInfo interface {
	Name() string
	Len() int
}

// Table returns the named table, or UNKNOWN_TABLE if the name is not one of
// the canonical table names.
func (s *Store) Table(name string) (TableInfo, error) {
	switch name {
	case TableStaff:
		return s.Staff, nil
	case TableStudentLogin:
		return s.Logins, nil
	case TableStudent:
		return s.Students, nil
	case TableSection:
		return s.Sections, nil
	case TableResource:
		return s.Resources, nil
	default:
		return nil, apperrors.Clone(apperrors.ErrUnknownTable,
			fmt.Sprintf("%q is not a table; valid names: %s, %s, %s, %s, %s",
				name, TableStaff, TableStudentLogin, TableStudent, TableSection, TableResource))
	}
}

// TableNames lists the canonical table names in load order.
func TableNames() []string {
	return []string{TableStaff, TableStudentLogin, TableStudent, TableSection, TableResource}
}

func dataFile(dir, name, suffix string) string {
	return filepath.Join(dir, name+suffix+".json")
}

// LoadAll replaces the contents of every table from the JSON data files in
// dir. All files are checked for existence before any table is touched, and
// each table is parsed into a staging store first, so a missing or corrupt
// file leaves the current state fully intact. suffix is appended to each
// file stem, allowing backup sets to live alongside the live one.
func (s *Store) LoadAll(dir, suffix string) error {
	for _, name := range TableNames() {
		path := dataFile(dir, name, suffix)
		if _, err := os.Stat(path); err != nil {
			s.logger.Error("table data file missing, load aborted",
				zap.String("table", name), zap.String("path", path))
			return apperrors.Wrap(err, apperrors.ErrNotFound.Code,
				fmt.Sprintf("data file for %s does not exist; no tables loaded", name))
		}
	}

	staged := New(s.logger)
	loads := []struct {
		name string
		load func(path string) error
	}{
		{TableStaff, staged.Staff.Load},
		{TableStudentLogin, staged.Logins.Load},
		{TableStudent, staged.Students.Load},
		{TableSection, staged.Sections.Load},
		{TableResource, staged.Resources.Load},
	}
	for _, l := range loads {
		if err := l.load(dataFile(dir, l.name, suffix)); err != nil {
			s.logger.Error("table load failed, no tables replaced",
				zap.String("table", l.name), zap.Error(err))
			return err
		}
	}

	s.Staff = staged.Staff
	s.Logins = staged.Logins
	s.Students = staged.Students
	s.Sections = staged.Sections
	s.Resources = staged.Resources

	s.logger.Info("database loaded",
		zap.String("dir", dir), zap.String("suffix", suffix),
		zap.Int("staff", s.Staff.Len()), zap.Int("logins", s.Logins.Len()),
		zap.Int("students", s.Students.Len()), zap.Int("sections", s.Sections.Len()),
		zap.Int("resources", s.Resources.Len()))
	return nil
}

// SaveAll writes every table to its JSON data file in dir, creating the
// directory if needed. suffix is appended to each file stem (use for
// backups).
func (s *Store) SaveAll(dir, suffix string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, "failed to create data directory")
	}

	saves := []struct {
		name string
		save func(path string) error
	}{
		{TableStaff, s.Staff.Save},
		{TableStudentLogin, s.Logins.Save},
		{TableStudent, s.Students.Save},
		{TableSection, s.Sections.Save},
		{TableResource, s.Resources.Save},
	}
	for _, sv := range saves {
		if err := sv.save(dataFile(dir, sv.name, suffix)); err != nil {
			return err
		}
	}

	s.logger.Info("database saved", zap.String("dir", dir), zap.String("suffix", suffix))
	return nil
}

// RowCounts reports the number of rows per table, keyed by table name.
func (s *Store) RowCounts() map[string]int {
	return map[string]int{
		TableStaff:        s.Staff.Len(),
		TableStudentLogin: s.Logins.Len(),
		TableStudent:      s.Students.Len(),
		TableSection:      s.Sections.Len(),
		TableResource:     s.Resources.Len(),
	}
}
