package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/cli/config"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

const validDataset = `
password = "Welcome#2024"
departments = ["Engineering", "Finance"]
designations = ["Manager", "Engineer"]

[defaults]
department = "Engineering"
designation = "Engineer"
photo_url = "https://example.com/avatar.png"

[[users]]
name = "Alice Admin"
email = "Alice@Example.com"
role = "Admin"

[[users]]
name = "Larry Lead"
email = "larry@example.com"
role = "Initiative Lead"
department = "Finance"
designation = "Manager"

[[users]]
name = "Tina Team"
email = "tina@example.com"

[[initiatives]]
name = "Cost Reduction"
category = "Finance"
description = "Reduce operating costs"
objectives = "Cut 10% of spend"
leads = ["larry@example.com"]
members = ["tina@example.com"]
status = "In Progress"
priority = "High"
start_date = 2024-01-15
end_date = 2024-06-30
tags = ["cost", "q1"]
rag_status = "Amber"
progress = 40
`

func TestLoadDataset(t *testing.T) {
	ds, err := config.LoadDataset(writeDataset(t, validDataset))
	gt.NoError(t, err).Required()

	gt.Value(t, ds.Password).Equal("Welcome#2024")
	gt.Value(t, ds.Departments).Equal([]string{"Engineering", "Finance"})
	gt.Value(t, ds.Defaults.PhotoURL).Equal("https://example.com/avatar.png")
	gt.Array(t, ds.Users).Length(3).Required()
	gt.Value(t, ds.Users[0].Role).Equal(types.RoleAdmin)
	gt.Value(t, ds.Users[2].Role).Equal(types.Role(""))
	gt.Value(t, ds.Users[1].Department).Equal("Finance")

	gt.Array(t, ds.Initiatives).Length(1).Required()
	ini := ds.Initiatives[0]
	gt.Value(t, ini.LeadEmails).Equal([]string{"larry@example.com"})
	gt.Value(t, ini.TeamMemberEmails).Equal([]string{"tina@example.com"})
	gt.Value(t, ini.Status).Equal(types.InitiativeStatusInProgress)
	gt.Value(t, ini.Priority).Equal(types.PriorityHigh)
	gt.Value(t, ini.RAGStatus).Equal(types.RAGStatusAmber)
	gt.Value(t, ini.StartDate).Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	gt.Value(t, ini.EndDate).Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	gt.Number(t, ini.Progress).Equal(40)
}

func TestLoadDataset_OptionalDates(t *testing.T) {
	ds, err := config.LoadDataset(writeDataset(t, `
[[users]]
name = "Larry Lead"
email = "larry@example.com"

[[initiatives]]
name = "Undated"
leads = ["larry@example.com"]
`))
	gt.NoError(t, err).Required()
	gt.Bool(t, ds.Initiatives[0].StartDate.IsZero()).True()
	gt.Bool(t, ds.Initiatives[0].EndDate.IsZero()).True()
}

func TestLoadDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "malformed toml",
			content: `[[users]`,
			wantErr: config.ErrInvalidDataset,
		},
		{
			name: "missing user email",
			content: `
[[users]]
name = "Nobody"
`,
			wantErr: config.ErrInvalidDataset,
		},
		{
			name: "invalid role",
			content: `
[[users]]
name = "Sam"
email = "sam@example.com"
role = "Owner"
`,
			wantErr: config.ErrInvalidDataset,
		},
		{
			name: "duplicate email ignoring case",
			content: `
[[users]]
name = "Sam"
email = "sam@example.com"

[[users]]
name = "Sam Again"
email = "SAM@example.com"
`,
			wantErr: config.ErrDuplicateEmail,
		},
		{
			name: "lead outside roster",
			content: `
[[users]]
name = "Sam"
email = "sam@example.com"

[[initiatives]]
name = "Orphan"
leads = ["ghost@example.com"]
`,
			wantErr: config.ErrUnknownReference,
		},
		{
			name: "invalid status",
			content: `
[[initiatives]]
name = "Broken"
status = "Done"
`,
			wantErr: config.ErrInvalidDataset,
		},
		{
			name: "progress out of range",
			content: `
[[initiatives]]
name = "Overachiever"
progress = 120
`,
			wantErr: config.ErrInvalidDataset,
		},
		{
			name: "end before start",
			content: `
[[initiatives]]
name = "Backwards"
start_date = 2024-06-01
end_date = 2024-01-01
`,
			wantErr: config.ErrInvalidDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadDataset(writeDataset(t, tt.content))
			gt.Error(t, err).Is(tt.wantErr)
		})
	}
}

func TestLoadDataset_NotFound(t *testing.T) {
	_, err := config.LoadDataset(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err).Is(config.ErrDatasetNotFound)
}
