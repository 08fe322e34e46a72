package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

func TestInitiative_Members(t *testing.T) {
	ini := &model.Initiative{
		LeadIDs:       []model.UserID{"lead1", "lead2"},
		TeamMemberIDs: []model.UserID{"member1", "lead1"},
	}

	gt.Value(t, ini.Members()).Equal([]model.UserID{"lead1", "lead2", "member1"})
	gt.Bool(t, ini.HasMember("member1")).True()
	gt.Bool(t, ini.HasMember("stranger")).False()
	gt.Bool(t, ini.IsLead("lead2")).True()
	gt.Bool(t, ini.IsLead("member1")).False()
}

func TestInitiative_ApplyDefaults(t *testing.T) {
	ini := &model.Initiative{Name: "Cloud migration"}
	ini.ApplyDefaults()

	gt.Value(t, ini.Status).Equal(types.InitiativeStatusNotStarted)
	gt.Value(t, ini.Priority).Equal(types.PriorityMedium)
	gt.Value(t, ini.RAGStatus).Equal(types.RAGStatusGreen)
	gt.Value(t, ini.Progress).Equal(0)
	gt.Value(t, ini.LeadIDs).NotNil()
	gt.Value(t, ini.Tags).NotNil()

	amber := &model.Initiative{RAGStatus: types.RAGStatusAmber, Status: types.InitiativeStatusOnHold}
	amber.ApplyDefaults()
	gt.Value(t, amber.RAGStatus).Equal(types.RAGStatusAmber)
	gt.Value(t, amber.Status).Equal(types.InitiativeStatusOnHold)
}

func TestMembershipDiff(t *testing.T) {
	t.Run("new initiative adds every member", func(t *testing.T) {
		after := &model.Initiative{LeadIDs: []model.UserID{"a"}, TeamMemberIDs: []model.UserID{"b"}}
		added, removed := model.MembershipDiff(nil, after)
		gt.Value(t, added).Equal([]model.UserID{"a", "b"})
		gt.Array(t, removed).Length(0)
	})

	t.Run("moving a member between lists is not a change", func(t *testing.T) {
		before := &model.Initiative{LeadIDs: []model.UserID{"a"}, TeamMemberIDs: []model.UserID{"b", "c"}}
		after := &model.Initiative{LeadIDs: []model.UserID{"a", "b"}, TeamMemberIDs: []model.UserID{"d"}}
		added, removed := model.MembershipDiff(before, after)
		gt.Value(t, added).Equal([]model.UserID{"d"})
		gt.Value(t, removed).Equal([]model.UserID{"c"})
	})
}

func TestAttachmentPath(t *testing.T) {
	gt.Value(t, model.AttachmentPath("ini1", "att1", "roadmap.pdf")).
		Equal("initiatives/ini1/att1-roadmap.pdf")
	gt.Value(t, model.AttachmentPath("ini1", "att1", "../../etc/passwd")).
		Equal("initiatives/ini1/att1-passwd")
	gt.Value(t, model.AttachmentPath("ini1", "att1", `C:\docs\plan.docx`)).
		Equal("initiatives/ini1/att1-plan.docx")
}

func TestNormalizeEmail(t *testing.T) {
	gt.Value(t, model.NormalizeEmail("  Alice@Example.COM ")).Equal("alice@example.com")
}
