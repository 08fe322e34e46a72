package config

import (
	"errors"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

// Dataset is the TOML form of a seed dataset
type Dataset struct {
	Password     string              `toml:"password" masq:"secret"`
	Departments  []string            `toml:"departments"`
	Designations []string            `toml:"designations"`
	Defaults     DatasetDefaults     `toml:"defaults"`
	Users        []DatasetUser       `toml:"users"`
	Initiatives  []DatasetInitiative `toml:"initiatives"`
}

type DatasetDefaults struct {
	Department  string `toml:"department"`
	Designation string `toml:"designation"`
	PhotoURL    string `toml:"photo_url"`
}

type DatasetUser struct {
	Name        string `toml:"name"`
	Email       string `toml:"email"`
	Role        string `toml:"role"`
	Department  string `toml:"department"`
	Designation string `toml:"designation"`
}

// Validate checks that the entry is usable as a roster user
func (u *DatasetUser) Validate() error {
	if u.Name == "" {
		return goerr.Wrap(ErrInvalidDataset, "user name is required", goerr.V(EmailKey, u.Email))
	}
	if u.Email == "" {
		return goerr.Wrap(ErrInvalidDataset, "user email is required", goerr.V("name", u.Name))
	}
	if u.Role != "" {
		if _, err := types.ParseRole(u.Role); err != nil {
			return goerr.Wrap(ErrInvalidDataset, "invalid user role",
				goerr.V(EmailKey, u.Email), goerr.V("role", u.Role))
		}
	}
	return nil
}

type DatasetInitiative struct {
	Name        string          `toml:"name"`
	Category    string          `toml:"category"`
	Description string          `toml:"description"`
	Objectives  string          `toml:"objectives"`
	Leads       []string        `toml:"leads"`
	Members     []string        `toml:"members"`
	Status      string          `toml:"status"`
	Priority    string          `toml:"priority"`
	StartDate   *toml.LocalDate `toml:"start_date"`
	EndDate     *toml.LocalDate `toml:"end_date"`
	Tags        []string        `toml:"tags"`
	RAGStatus   string          `toml:"rag_status"`
	Progress    int             `toml:"progress"`
}

// Validate checks enumerations and ranges. References to roster emails are
// checked by Dataset.Validate.
func (i *DatasetInitiative) Validate() error {
	if i.Name == "" {
		return goerr.Wrap(ErrInvalidDataset, "initiative name is required")
	}
	if i.Status != "" {
		if _, err := types.ParseInitiativeStatus(i.Status); err != nil {
			return goerr.Wrap(ErrInvalidDataset, "invalid initiative status",
				goerr.V(InitiativeKey, i.Name), goerr.V(FieldKey, "status"), goerr.V("value", i.Status))
		}
	}
	if i.Priority != "" {
		if _, err := types.ParsePriority(i.Priority); err != nil {
			return goerr.Wrap(ErrInvalidDataset, "invalid initiative priority",
				goerr.V(InitiativeKey, i.Name), goerr.V(FieldKey, "priority"), goerr.V("value", i.Priority))
		}
	}
	if i.RAGStatus != "" {
		if _, err := types.ParseRAGStatus(i.RAGStatus); err != nil {
			return goerr.Wrap(ErrInvalidDataset, "invalid initiative RAG status",
				goerr.V(InitiativeKey, i.Name), goerr.V(FieldKey, "rag_status"), goerr.V("value", i.RAGStatus))
		}
	}
	if i.Progress < 0 || i.Progress > 100 {
		return goerr.Wrap(ErrInvalidDataset, "initiative progress must be between 0 and 100",
			goerr.V(InitiativeKey, i.Name), goerr.V("progress", i.Progress))
	}
	if i.StartDate != nil && i.EndDate != nil && localDateTime(i.EndDate).Before(localDateTime(i.StartDate)) {
		return goerr.Wrap(ErrInvalidDataset, "initiative end date is before start date",
			goerr.V(InitiativeKey, i.Name))
	}
	return nil
}

// Validate checks the whole dataset. Initiative leads and members must name
// roster users.
func (d *Dataset) Validate() error {
	emails := make(map[string]struct{}, len(d.Users))
	for idx := range d.Users {
		u := &d.Users[idx]
		if err := u.Validate(); err != nil {
			return goerr.Wrap(err, "invalid user", goerr.V(UserIndexKey, idx))
		}
		email := model.NormalizeEmail(u.Email)
		if _, ok := emails[email]; ok {
			return goerr.Wrap(ErrDuplicateEmail, "user email appears twice", goerr.V(EmailKey, email))
		}
		emails[email] = struct{}{}
	}

	for idx := range d.Initiatives {
		ini := &d.Initiatives[idx]
		if err := ini.Validate(); err != nil {
			return err
		}
		for _, email := range append(append([]string{}, ini.Leads...), ini.Members...) {
			if _, ok := emails[model.NormalizeEmail(email)]; !ok {
				return goerr.Wrap(ErrUnknownReference, "initiative references a user outside the roster",
					goerr.V(InitiativeKey, ini.Name), goerr.V(EmailKey, email))
			}
		}
	}

	return nil
}

func localDateTime(d *toml.LocalDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.AsTime(time.UTC)
}

// ToModel converts the dataset into the seeding input
func (d *Dataset) ToModel() *model.SeedDataset {
	out := &model.SeedDataset{
		Password: d.Password,
		Defaults: model.SeedDefaults{
			Department:  d.Defaults.Department,
			Designation: d.Defaults.Designation,
			PhotoURL:    d.Defaults.PhotoURL,
		},
		Departments:  d.Departments,
		Designations: d.Designations,
	}

	for _, u := range d.Users {
		out.Users = append(out.Users, model.SeedUser{
			Name:        u.Name,
			Email:       u.Email,
			Role:        types.Role(u.Role),
			Department:  u.Department,
			Designation: u.Designation,
		})
	}

	for _, ini := range d.Initiatives {
		out.Initiatives = append(out.Initiatives, model.SeedInitiative{
			Name:             ini.Name,
			Category:         ini.Category,
			Description:      ini.Description,
			Objectives:       ini.Objectives,
			LeadEmails:       ini.Leads,
			TeamMemberEmails: ini.Members,
			Status:           types.InitiativeStatus(ini.Status),
			Priority:         types.Priority(ini.Priority),
			StartDate:        localDateTime(ini.StartDate),
			EndDate:          localDateTime(ini.EndDate),
			Tags:             ini.Tags,
			RAGStatus:        types.RAGStatus(ini.RAGStatus),
			Progress:         ini.Progress,
		})
	}

	return out
}

// LoadDataset reads and validates a TOML seed dataset
func LoadDataset(path string) (*model.SeedDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrDatasetNotFound, "dataset file does not exist", goerr.V(DatasetPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read dataset file", goerr.V(DatasetPathKey, path))
	}

	var ds Dataset
	if err := toml.Unmarshal(data, &ds); err != nil {
		return nil, goerr.Wrap(ErrInvalidDataset, "failed to parse dataset file",
			goerr.V(DatasetPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := ds.Validate(); err != nil {
		return nil, goerr.Wrap(err, "dataset validation failed", goerr.V(DatasetPathKey, path))
	}

	return ds.ToModel(), nil
}
