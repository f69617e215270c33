package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aroy/employee-dashboard/internal/feed"
)

// Sentinels shown when an employee's timesheet references no known
// project or task, and when no employee logged time against a company.
const (
	NoProject   = "No project assigned"
	NoTask      = "No task assigned"
	NoEmployees = "No Employees Assigned"
)

// HoursMins is a duration broken into whole hours and rounded minutes
// for display.
type HoursMins struct {
	Hours int `json:"hours"`
	Mins  int `json:"mins"`
}

// EmployeeRecord is one display row of the overview table.
type EmployeeRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	CompanyName string    `json:"companyName"`
	TaskName    string    `json:"taskName"`
	TotalHours  HoursMins `json:"totalHours"`
}

// ProjectRecord is one display row of the project table: a company, its
// manager (client_name), its status and the comma-joined names of the
// employees who logged time against it.
type ProjectRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Manager   string `json:"manager"`
	Employees string `json:"employees"`
	Status    string `json:"status"`
}

// Summary is the full derived view served to the dashboard front end.
// StatusCounts counts timesheet entries per status; ProjectCounts counts
// distinct employees per project name. Generations records which feed
// snapshot generations produced this summary.
type Summary struct {
	TotalEmployees int               `json:"totalEmployees"`
	TotalHours     HoursMins         `json:"totalHours"`
	Employees      []EmployeeRecord  `json:"employees"`
	Projects       []ProjectRecord   `json:"projects"`
	StatusCounts   map[string]int    `json:"statusCounts"`
	ProjectCounts  map[string]int    `json:"projectCounts"`
	Generations    map[string]uint64 `json:"generations"`
}

// BuildSummary joins the four feeds into a Summary.
//
// Timesheet rows reference projects by company_id and tasks by m_slno;
// employees are keyed by Emp_ID and timesheet rows by User_Id (the same
// identifier under two column names). Hours are "HH:MM:SS" strings and
// are accumulated in minutes. Rows with unparseable hours are skipped.
func BuildSummary(employees, timesheet, companies, modules []feed.Row, generations map[string]uint64) Summary {
	employees = cleanKeys(employees)
	timesheet = cleanKeys(timesheet)
	companies = cleanKeys(companies)
	modules = cleanKeys(modules)

	companyNames := make(map[string]string, len(companies)) // company_id -> company_name
	for _, c := range companies {
		if id := c["company_id"]; id != "" {
			companyNames[id] = c["company_name"]
		}
	}
	taskNames := make(map[string]string, len(modules)) // m_slno -> mod_name
	for _, m := range modules {
		if id := m["m_slno"]; id != "" {
			taskNames[id] = m["mod_name"]
		}
	}
	employeeNames := make(map[string]string, len(employees)) // Emp_ID -> full name
	for _, e := range employees {
		if id := e["Emp_ID"]; id != "" {
			employeeNames[id] = strings.TrimSpace(e["User_Fname"] + " " + e["User_Lname"])
		}
	}

	// Per-user distinct project and task names, preserving first-seen
	// order so repeated builds render identically.
	userProjects := make(map[string]*orderedSet)
	userTasks := make(map[string]*orderedSet)
	// Per-project distinct users, for the project table.
	projectUsers := make(map[string]*orderedSet) // company_id -> User_Ids

	statusCounts := make(map[string]int)
	perUserMinutes := make(map[string]float64)
	var totalMinutes float64

	for _, entry := range timesheet {
		uid := entry["User_Id"]
		statusCounts[entry["Status"]]++

		if name, ok := companyNames[entry["project"]]; ok {
			if userProjects[uid] == nil {
				userProjects[uid] = newOrderedSet()
			}
			userProjects[uid].add(name)
			if projectUsers[entry["project"]] == nil {
				projectUsers[entry["project"]] = newOrderedSet()
			}
			projectUsers[entry["project"]].add(uid)
		}
		if name, ok := taskNames[entry["task"]]; ok {
			if userTasks[uid] == nil {
				userTasks[uid] = newOrderedSet()
			}
			userTasks[uid].add(name)
		}

		mins, err := ParseHoursToMinutes(entry["hours"])
		if err != nil {
			continue
		}
		totalMinutes += mins
		perUserMinutes[uid] += mins
	}

	records := make([]EmployeeRecord, 0, len(employees))
	projectCounts := make(map[string]int)
	for _, e := range employees {
		id := e["Emp_ID"]
		rec := EmployeeRecord{
			ID:          id,
			Name:        strings.TrimSpace(e["User_Fname"] + " " + e["User_Lname"]),
			Email:       orNA(e["User_Email"]),
			Status:      orNA(e["User_Status"]),
			CompanyName: NoProject,
			TaskName:    NoTask,
			TotalHours:  toHoursAndMinutes(perUserMinutes[id]),
		}
		if ps := userProjects[id]; ps != nil {
			rec.CompanyName = strings.Join(ps.items, ", ")
			for _, p := range ps.items {
				projectCounts[p]++
			}
		}
		if ts := userTasks[id]; ts != nil {
			rec.TaskName = strings.Join(ts.items, ", ")
		}
		records = append(records, rec)
	}

	projects := make([]ProjectRecord, 0, len(companies))
	for _, c := range companies {
		id := c["company_id"]
		rec := ProjectRecord{
			ID:        id,
			Name:      orNA(c["company_name"]),
			Manager:   c["client_name"],
			Employees: NoEmployees,
			Status:    orNA(c["status"]),
		}
		if rec.Manager == "" {
			rec.Manager = "NA"
		}
		if us := projectUsers[id]; us != nil {
			var names []string
			for _, uid := range us.items {
				if n := employeeNames[uid]; n != "" {
					names = append(names, n)
				}
			}
			if len(names) > 0 {
				rec.Employees = strings.Join(names, ", ")
			}
		}
		projects = append(projects, rec)
	}

	return Summary{
		TotalEmployees: len(records),
		TotalHours:     toHoursAndMinutes(totalMinutes),
		Employees:      records,
		Projects:       projects,
		StatusCounts:   statusCounts,
		ProjectCounts:  projectCounts,
		Generations:    generations,
	}
}

// ParseHoursToMinutes converts an "HH:MM:SS" string to minutes.
func ParseHoursToMinutes(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed hours %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed hours %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed hours %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("malformed hours %q", s)
	}
	return float64(h)*60 + float64(m) + float64(sec)/60, nil
}

func toHoursAndMinutes(minutes float64) HoursMins {
	return HoursMins{
		Hours: int(minutes) / 60,
		Mins:  int(math.Round(math.Mod(minutes, 60))),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// cleanKeys strips a leading byte order mark from every column key.
// The feed server already strips header BOMs at parse time, but the
// dashboard also has to cope with feeds served by the original
// implementation, which passes them through.
func cleanKeys(rows []feed.Row) []feed.Row {
	dirty := false
	for _, r := range rows {
		for k := range r {
			if strings.HasPrefix(k, "\ufeff") {
				dirty = true
			}
		}
	}
	if !dirty {
		return rows
	}
	out := make([]feed.Row, len(rows))
	for i, r := range rows {
		nr := make(feed.Row, len(r))
		for k, v := range r {
			nr[strings.TrimPrefix(k, "\ufeff")] = v
		}
		out[i] = nr
	}
	return out
}

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet { return &orderedSet{seen: make(map[string]bool)} }

func (s *orderedSet) add(v string) {
	if !s.seen[v] {
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}
