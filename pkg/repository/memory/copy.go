package memory

import "github.com/secmon-lab/initiativeflow/pkg/domain/model"

func copyUser(u *model.User) *model.User {
	copied := *u
	copied.InitiativeIDs = append([]model.InitiativeID{}, u.InitiativeIDs...)
	return &copied
}

func copyInitiative(i *model.Initiative) *model.Initiative {
	copied := *i
	copied.LeadIDs = append([]model.UserID{}, i.LeadIDs...)
	copied.TeamMemberIDs = append([]model.UserID{}, i.TeamMemberIDs...)
	copied.Tags = append([]string{}, i.Tags...)
	return &copied
}

func copyTask(t *model.Task) *model.Task {
	copied := *t
	return &copied
}

func copyAttachment(a *model.Attachment) *model.Attachment {
	copied := *a
	return &copied
}
