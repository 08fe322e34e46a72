package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// SeedUseCase provisions and removes the baseline dataset. It runs with
// service credentials and bypasses the per-user authorization rules.
type SeedUseCase struct {
	repo     interfaces.Repository
	identity interfaces.IdentityProvider
}

func NewSeedUseCase(repo interfaces.Repository, identity interfaces.IdentityProvider) *SeedUseCase {
	return &SeedUseCase{repo: repo, identity: identity}
}

type ProgressFunc func(model.SeedProgress)

func (f ProgressFunc) report(msg string, pct int) {
	if f != nil {
		f(model.SeedProgress{Message: msg, Percentage: pct})
	}
}

// rosterEntries returns the roster keyed by lowercase email, first entry
// wins, in roster order
func rosterEntries(users []model.SeedUser) ([]string, map[string]model.SeedUser) {
	emails := make([]string, 0, len(users))
	byEmail := make(map[string]model.SeedUser, len(users))
	for _, u := range users {
		email := model.NormalizeEmail(u.Email)
		if email == "" {
			continue
		}
		if _, ok := byEmail[email]; ok {
			continue
		}
		byEmail[email] = u
		emails = append(emails, email)
	}
	return emails, byEmail
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, name)
	}
	return result
}

// RunSeed provisions accounts, lookup tables, profiles and initiatives in
// four sequential steps. A failed step aborts the rest; batches committed by
// earlier steps stay in place.
func (uc *SeedUseCase) RunSeed(ctx context.Context, dataset *model.SeedDataset, progress ProgressFunc) (*model.SeedReport, error) {
	if uc.identity == nil {
		return nil, goerr.Wrap(ErrIdentityNotConfigured, "seeding requires an identity provider")
	}
	if dataset == nil {
		return nil, goerr.New("seed dataset is required")
	}

	logger := logging.From(ctx)
	report := &model.SeedReport{}
	progress.report("Starting seed", 0)

	// Step 1: accounts
	emails, roster := rosterEntries(dataset.Users)
	results, err := uc.provisionAccounts(ctx, dataset.Password, emails, roster)
	report.Accounts = results
	if err != nil {
		return report, err
	}
	progress.report("Accounts provisioned", 25)

	// Step 2: lookup tables
	departments := uniqueNames(dataset.Departments)
	designations := uniqueNames(dataset.Designations)
	if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
		for _, name := range departments {
			b.PutMaster(model.MasterDepartment, &model.MasterItem{ID: model.MasterIDFromName(model.MasterDepartment, name), Name: name})
		}
		for _, name := range designations {
			b.PutMaster(model.MasterDesignation, &model.MasterItem{ID: model.MasterIDFromName(model.MasterDesignation, name), Name: name})
		}
		return nil
	}); err != nil {
		return report, goerr.Wrap(err, "failed to seed master data")
	}
	report.DepartmentsWritten = len(departments)
	report.DesignationsWritten = len(designations)
	progress.report("Departments and designations written", 50)

	// Step 3: profiles
	emailToID, err := uc.seedProfiles(ctx, dataset, results, roster, report)
	if err != nil {
		return report, err
	}
	progress.report("User profiles written", 75)

	// Step 4: initiatives
	if err := uc.seedInitiatives(ctx, dataset.Initiatives, emailToID, report); err != nil {
		return report, err
	}
	progress.report("Initiatives written", 100)

	logger.Info("seed completed",
		"accounts", len(report.Accounts),
		"profiles_created", report.ProfilesCreated,
		"profiles_existing", report.ProfilesExisting,
		"initiatives", report.InitiativesCreated,
		"unresolved_emails", len(report.UnresolvedEmails))
	return report, nil
}

func (uc *SeedUseCase) provisionAccounts(ctx context.Context, password string, emails []string, roster map[string]model.SeedUser) ([]model.ProvisionResult, error) {
	results := make([]model.ProvisionResult, len(emails))

	var eg errgroup.Group
	for i, email := range emails {
		eg.Go(func() error {
			results[i] = uc.identity.CreateOrGet(ctx, model.Account{
				Email:       email,
				Password:    password,
				DisplayName: roster[email].Name,
			})
			if results[i].Email == "" {
				results[i].Email = email
			}
			return nil
		})
	}
	_ = eg.Wait()

	for _, r := range results {
		if r.Provisioned() {
			continue
		}
		opts := []goerr.Option{goerr.V("email", r.Email)}
		if r.Reason != nil {
			opts = append(opts, goerr.V("reason", r.Reason.Error()))
		}
		return results, goerr.Wrap(ErrAccountProvisionFailed, "account provisioning failed", opts...)
	}
	return results, nil
}

func (uc *SeedUseCase) seedProfiles(ctx context.Context, dataset *model.SeedDataset, results []model.ProvisionResult, roster map[string]model.SeedUser, report *model.SeedReport) (map[string]model.UserID, error) {
	logger := logging.From(ctx)

	existing, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read existing profiles")
	}
	emailToID := make(map[string]model.UserID, len(existing)+len(results))
	for _, u := range existing {
		emailToID[model.NormalizeEmail(u.Email)] = u.ID
	}

	now := time.Now().UTC()
	var profiles []*model.User
	for _, r := range results {
		email := model.NormalizeEmail(r.Email)
		if _, ok := emailToID[email]; ok {
			report.ProfilesExisting++
			continue
		}
		if r.UID == "" {
			logger.Warn("account exists without a known id and has no profile, skipping", "email", email)
			continue
		}

		entry := roster[email]
		user := &model.User{
			ID:            r.UID,
			Name:          entry.Name,
			Email:         email,
			Role:          entry.Role,
			Department:    firstNonEmpty(entry.Department, dataset.Defaults.Department),
			Designation:   firstNonEmpty(entry.Designation, dataset.Defaults.Designation),
			PhotoURL:      dataset.Defaults.PhotoURL,
			Active:        true,
			InitiativeIDs: []model.InitiativeID{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if user.Role == "" {
			user.Role = types.RoleTeamMember
		}
		profiles = append(profiles, user)
		emailToID[email] = r.UID
	}

	if len(profiles) > 0 {
		if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
			for _, p := range profiles {
				b.PutUser(p)
			}
			return nil
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to seed profiles", goerr.V("count", len(profiles)))
		}
	}
	report.ProfilesCreated = len(profiles)
	return emailToID, nil
}

func (uc *SeedUseCase) seedInitiatives(ctx context.Context, seeds []model.SeedInitiative, emailToID map[string]model.UserID, report *model.SeedReport) error {
	logger := logging.From(ctx)
	unresolved := map[string]struct{}{}

	resolve := func(emails []string) []model.UserID {
		ids := make([]model.UserID, 0, len(emails))
		for _, e := range emails {
			email := model.NormalizeEmail(e)
			id, ok := emailToID[email]
			if !ok {
				if _, seen := unresolved[email]; !seen {
					unresolved[email] = struct{}{}
					report.UnresolvedEmails = append(report.UnresolvedEmails, email)
				}
				continue
			}
			ids = append(ids, id)
		}
		return uniqueUserIDs(ids)
	}

	now := time.Now().UTC()
	initiatives := make([]*model.Initiative, 0, len(seeds))
	for _, s := range seeds {
		ini := &model.Initiative{
			ID:            model.NewInitiativeID(),
			Name:          s.Name,
			Category:      s.Category,
			Description:   s.Description,
			Objectives:    s.Objectives,
			LeadIDs:       resolve(s.LeadEmails),
			TeamMemberIDs: resolve(s.TeamMemberEmails),
			Status:        s.Status,
			Priority:      s.Priority,
			StartDate:     s.StartDate,
			EndDate:       s.EndDate,
			Tags:          append([]string{}, s.Tags...),
			RAGStatus:     s.RAGStatus,
			Progress:      s.Progress,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		ini.ApplyDefaults()
		if len(ini.LeadIDs) == 0 {
			logger.Warn("initiative has no resolvable lead", "name", s.Name, "lead_emails", s.LeadEmails)
		}
		initiatives = append(initiatives, ini)
	}

	if len(initiatives) > 0 {
		if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
			for _, ini := range initiatives {
				b.PutInitiative(ini)
				for _, member := range ini.Members() {
					b.AddMembership(member, ini.ID)
				}
			}
			return nil
		}); err != nil {
			return goerr.Wrap(err, "failed to seed initiatives", goerr.V("count", len(initiatives)))
		}
	}
	report.InitiativesCreated = len(initiatives)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ClearData deletes every initiative, department, designation and non-admin
// profile. Admin profiles and identity accounts are kept, with their
// membership lists emptied along with the initiatives.
func (uc *SeedUseCase) ClearData(ctx context.Context, progress ProgressFunc) (*model.ClearReport, error) {
	report := &model.ClearReport{}

	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return report, goerr.Wrap(err, "failed to list users")
	}
	var admins, targets []*model.User
	for _, u := range users {
		if u.IsAdmin() {
			admins = append(admins, u)
		} else {
			targets = append(targets, u)
		}
	}

	initiatives, err := uc.repo.Initiative().List(ctx)
	if err != nil {
		return report, goerr.Wrap(err, "failed to list initiatives")
	}
	if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
		for _, ini := range initiatives {
			b.DeleteInitiative(ini.ID)
		}
		for _, admin := range admins {
			for _, id := range adminMemberships(admin, initiatives) {
				b.RemoveMembership(admin.ID, id)
			}
		}
		return nil
	}); err != nil {
		return report, goerr.Wrap(err, "failed to delete initiatives")
	}
	report.InitiativesDeleted = len(initiatives)
	progress.report("Initiatives deleted", 25)

	for _, step := range []struct {
		kind  model.MasterKind
		count *int
		msg   string
		pct   int
	}{
		{model.MasterDepartment, &report.DepartmentsDeleted, "Departments deleted", 50},
		{model.MasterDesignation, &report.DesignationsDeleted, "Designations deleted", 75},
	} {
		items, err := uc.repo.Master().List(ctx, step.kind)
		if err != nil {
			return report, goerr.Wrap(err, "failed to list master items", goerr.V("kind", step.kind))
		}
		if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
			for _, item := range items {
				b.DeleteMaster(step.kind, item.ID)
			}
			return nil
		}); err != nil {
			return report, goerr.Wrap(err, "failed to delete master items", goerr.V("kind", step.kind))
		}
		*step.count = len(items)
		progress.report(step.msg, step.pct)
	}

	report.AdminsKept = len(admins)
	if err := uc.repo.RunBatch(ctx, func(b interfaces.Batch) error {
		for _, u := range targets {
			b.DeleteUser(u.ID)
		}
		return nil
	}); err != nil {
		return report, goerr.Wrap(err, "failed to delete users")
	}
	report.UsersDeleted = len(targets)
	progress.report("Users deleted", 100)

	logging.From(ctx).Info("data cleared",
		"initiatives", report.InitiativesDeleted,
		"departments", report.DepartmentsDeleted,
		"designations", report.DesignationsDeleted,
		"users", report.UsersDeleted,
		"admins_kept", report.AdminsKept)
	return report, nil
}

// adminMemberships lists the stored memberships of admin plus any deleted
// initiative that names admin without the membership being recorded
func adminMemberships(admin *model.User, initiatives []*model.Initiative) []model.InitiativeID {
	ids := append([]model.InitiativeID{}, admin.InitiativeIDs...)
	for _, ini := range initiatives {
		if ini.HasMember(admin.ID) && !admin.IsMemberOf(ini.ID) {
			ids = append(ids, ini.ID)
		}
	}
	return ids
}
