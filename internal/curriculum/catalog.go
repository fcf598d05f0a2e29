// Package curriculum holds the predefined academic years and subjects and the
// subject matching rules used to gate what a teacher may publish.
package curriculum

import (
	"sort"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/config"
)

type Year struct {
	Number    int    `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
}

type Subject struct {
	Year           int     `json:"yearId"`
	Name           string  `json:"subjectName"`
	DurationMonths float64 `json:"durationMonths"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	years    []Year
	subjects map[int][]Subject
	rules    MatchRules
}

func NewCatalog(years []Year, subjects []Subject, rules MatchRules) *Catalog {
	c := &Catalog{
		years:    append([]Year(nil), years...),
		subjects: make(map[int][]Subject),
		rules:    rules,
	}
	for _, s := range subjects {
		c.subjects[s.Year] = append(c.subjects[s.Year], s)
	}
	sort.SliceStable(c.years, func(i, j int) bool { return c.years[i].Number < c.years[j].Number })
	return c
}

// Default returns the built-in curriculum.
func Default() *Catalog {
	return NewCatalog(defaultYears, defaultSubjects, DefaultMatchRules)
}

// FromConfig uses the configured curriculum, falling back to the built-in one
// for any section left empty.
func FromConfig(cfg config.CurriculumConfig) *Catalog {
	years := defaultYears
	if len(cfg.Years) > 0 {
		years = make([]Year, 0, len(cfg.Years))
		for _, y := range cfg.Years {
			years = append(years, Year{Number: y.Number, Code: y.Code, Name: y.Name, StartDate: y.StartDate})
		}
	}
	subjects := defaultSubjects
	if len(cfg.Subjects) > 0 {
		subjects = make([]Subject, 0, len(cfg.Subjects))
		for _, s := range cfg.Subjects {
			subjects = append(subjects, Subject{Year: s.Year, Name: s.Name, DurationMonths: s.DurationMonths})
		}
	}
	return NewCatalog(years, subjects, DefaultMatchRules)
}

func (c *Catalog) Years() []Year {
	return append([]Year(nil), c.years...)
}

// SubjectsByYear returns the subjects of every year keyed by year number.
func (c *Catalog) SubjectsByYear() map[int][]Subject {
	out := make(map[int][]Subject, len(c.subjects))
	for y, list := range c.subjects {
		out[y] = append([]Subject(nil), list...)
	}
	return out
}

func (c *Catalog) SubjectsForYear(year int) ([]Subject, bool) {
	list, ok := c.subjects[year]
	if !ok {
		return nil, false
	}
	return append([]Subject(nil), list...), true
}

// SubjectNames returns every distinct subject name, sorted.
func (c *Catalog) SubjectNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, list := range c.subjects {
		for _, s := range list {
			if _, ok := seen[s.Name]; ok {
				continue
			}
			seen[s.Name] = struct{}{}
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names
}

// TeacherSubjects lists the catalog subjects matching a teacher's declared subject.
func (c *Catalog) TeacherSubjects(teacherSubject string) []string {
	matched := []string{}
	if teacherSubject == "" {
		return matched
	}
	for _, name := range c.SubjectNames() {
		if c.rules.Match(teacherSubject, name) {
			matched = append(matched, name)
		}
	}
	return matched
}

// Allows reports whether a teacher with teacherSubject may publish work for subject.
func (c *Catalog) Allows(teacherSubject, subject string) bool {
	want := Normalize(subject)
	for _, name := range c.TeacherSubjects(teacherSubject) {
		if Normalize(name) == want {
			return true
		}
	}
	return false
}
