package dashboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aroy/employee-dashboard/internal/feed"
)

func sampleFeeds() (employees, timesheet, companies, modules []feed.Row) {
	employees = []feed.Row{
		{"Emp_ID": "E1", "User_Fname": "Ada", "User_Lname": "Lovelace", "User_Email": "ada@x.com", "User_Status": "Active"},
		{"Emp_ID": "E2", "User_Fname": "Alan", "User_Lname": "Turing", "User_Email": "alan@x.com", "User_Status": "Active"},
		{"Emp_ID": "E3", "User_Fname": "Grace", "User_Lname": "Hopper", "User_Email": "", "User_Status": "Inactive"},
	}
	timesheet = []feed.Row{
		{"User_Id": "E1", "project": "C1", "task": "T1", "hours": "02:30:00", "Status": "Approved"},
		{"User_Id": "E1", "project": "C2", "task": "T2", "hours": "01:00:00", "Status": "Pending"},
		{"User_Id": "E2", "project": "C1", "task": "T1", "hours": "00:45:30", "Status": "Approved"},
		{"User_Id": "E1", "project": "C1", "task": "T1", "hours": "00:15:00", "Status": "Approved"},
	}
	companies = []feed.Row{
		{"company_id": "C1", "company_name": "Acme", "client_name": "Marie Curie", "status": "Active"},
		{"company_id": "C2", "company_name": "Globex", "status": "On Hold"},
		{"company_id": "C3", "company_name": "Initech"},
	}
	modules = []feed.Row{
		{"m_slno": "T1", "mod_name": "Design"},
		{"m_slno": "T2", "mod_name": "Review"},
	}
	return
}

func TestBuildSummary_Join(t *testing.T) {
	t.Parallel()

	e, ts, co, mo := sampleFeeds()
	s := BuildSummary(e, ts, co, mo, map[string]uint64{"timesheet": 1})

	require.Equal(t, 3, s.TotalEmployees)
	require.Len(t, s.Employees, 3)

	ada := s.Employees[0]
	require.Equal(t, "E1", ada.ID)
	require.Equal(t, "Ada Lovelace", ada.Name)
	require.Equal(t, "Acme, Globex", ada.CompanyName)
	require.Equal(t, "Design, Review", ada.TaskName)
	// 150 + 60 + 15 minutes
	require.Equal(t, HoursMins{Hours: 3, Mins: 45}, ada.TotalHours)

	alan := s.Employees[1]
	require.Equal(t, "Acme", alan.CompanyName)
	require.Equal(t, "Design", alan.TaskName)
	// 45.5 minutes rounds to 46
	require.Equal(t, HoursMins{Hours: 0, Mins: 46}, alan.TotalHours)

	grace := s.Employees[2]
	require.Equal(t, NoProject, grace.CompanyName)
	require.Equal(t, NoTask, grace.TaskName)
	require.Equal(t, "N/A", grace.Email)
	require.Equal(t, HoursMins{}, grace.TotalHours)
}

func TestBuildSummary_Totals(t *testing.T) {
	t.Parallel()

	e, ts, co, mo := sampleFeeds()
	s := BuildSummary(e, ts, co, mo, nil)

	// 150 + 60 + 45.5 + 15 = 270.5 minutes -> 4h + 30.5 rounded to 31
	require.Equal(t, HoursMins{Hours: 4, Mins: 31}, s.TotalHours)

	require.Equal(t, map[string]int{"Approved": 3, "Pending": 1}, s.StatusCounts)
	require.Equal(t, map[string]int{"Acme": 2, "Globex": 1}, s.ProjectCounts)
}

func TestBuildSummary_ProjectTable(t *testing.T) {
	t.Parallel()

	e, ts, co, mo := sampleFeeds()
	s := BuildSummary(e, ts, co, mo, nil)

	require.Equal(t, []ProjectRecord{
		{ID: "C1", Name: "Acme", Manager: "Marie Curie", Employees: "Ada Lovelace, Alan Turing", Status: "Active"},
		{ID: "C2", Name: "Globex", Manager: "NA", Employees: "Ada Lovelace", Status: "On Hold"},
		{ID: "C3", Name: "Initech", Manager: "NA", Employees: NoEmployees, Status: "N/A"},
	}, s.Projects)
}

// Timesheet user ids with no matching employee row contribute to the
// distinct counts but not to the rendered name list.
func TestBuildSummary_ProjectTableUnknownUser(t *testing.T) {
	t.Parallel()

	companies := []feed.Row{{"company_id": "C1", "company_name": "Acme"}}
	timesheet := []feed.Row{
		{"User_Id": "GHOST", "project": "C1", "hours": "01:00:00", "Status": "Approved"},
	}
	s := BuildSummary(nil, timesheet, companies, nil, nil)

	require.Len(t, s.Projects, 1)
	require.Equal(t, NoEmployees, s.Projects[0].Employees)
}

// Timesheet rows pointing at unknown projects or tasks contribute hours
// but no project or task names.
func TestBuildSummary_DanglingReferences(t *testing.T) {
	t.Parallel()

	employees := []feed.Row{{"Emp_ID": "E1", "User_Fname": "Ada", "User_Lname": "L"}}
	timesheet := []feed.Row{
		{"User_Id": "E1", "project": "GHOST", "task": "GHOST", "hours": "01:00:00", "Status": "Approved"},
	}
	s := BuildSummary(employees, timesheet, nil, nil, nil)

	require.Equal(t, NoProject, s.Employees[0].CompanyName)
	require.Equal(t, NoTask, s.Employees[0].TaskName)
	require.Equal(t, HoursMins{Hours: 1, Mins: 0}, s.Employees[0].TotalHours)
}

func TestBuildSummary_SkipsBadHours(t *testing.T) {
	t.Parallel()

	employees := []feed.Row{{"Emp_ID": "E1"}}
	timesheet := []feed.Row{
		{"User_Id": "E1", "hours": "01:00:00", "Status": "Approved"},
		{"User_Id": "E1", "hours": "bogus", "Status": "Approved"},
		{"User_Id": "E1", "hours": "", "Status": "Pending"},
	}
	s := BuildSummary(employees, timesheet, nil, nil, nil)

	require.Equal(t, HoursMins{Hours: 1, Mins: 0}, s.TotalHours)
	// Bad rows still count toward the status breakdown.
	require.Equal(t, map[string]int{"Approved": 2, "Pending": 1}, s.StatusCounts)
}

func TestBuildSummary_BOMKeys(t *testing.T) {
	t.Parallel()

	companies := []feed.Row{{"\ufeffcompany_id": "C1", "company_name": "Acme"}}
	timesheet := []feed.Row{
		{"User_Id": "E1", "project": "C1", "task": "", "hours": "00:30:00", "Status": "Approved"},
	}
	employees := []feed.Row{{"Emp_ID": "E1", "User_Fname": "Ada", "User_Lname": "L"}}

	s := BuildSummary(employees, timesheet, companies, nil, nil)
	require.Equal(t, "Acme", s.Employees[0].CompanyName)
}

func TestParseHoursToMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"01:30:00", 90, true},
		{"00:00:30", 0.5, true},
		{"10:00:00", 600, true},
		{"00:45:30", 45.5, true},
		{"1:5:0", 65, true},
		{"", 0, false},
		{"01:30", 0, false},
		{"aa:bb:cc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseHoursToMinutes(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			require.InDelta(t, tc.want, got, 1e-9, tc.in)
		} else {
			require.Error(t, err, tc.in)
		}
	}
}
