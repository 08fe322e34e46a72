package http

import (
	"time"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type userResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Department    string    `json:"department"`
	Designation   string    `json:"designation"`
	Active        bool      `json:"active"`
	PhotoURL      string    `json:"photoUrl"`
	InitiativeIDs []string  `json:"initiativeIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toUserResponse(u *model.User) *userResponse {
	if u == nil {
		return nil
	}
	ids := make([]string, len(u.InitiativeIDs))
	for i, id := range u.InitiativeIDs {
		ids[i] = id.String()
	}
	return &userResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role.String(),
		Department:    u.Department,
		Designation:   u.Designation,
		Active:        u.Active,
		PhotoURL:      u.PhotoURL,
		InitiativeIDs: ids,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

type initiativeResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Objectives    string    `json:"objectives"`
	LeadIDs       []string  `json:"leadIds"`
	TeamMemberIDs []string  `json:"teamMemberIds"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Tags          []string  `json:"tags"`
	RAGStatus     string    `json:"ragStatus"`
	Progress      int       `json:"progress"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func userIDStrings(ids []model.UserID) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = id.String()
	}
	return result
}

func toInitiativeResponse(ini *model.Initiative) *initiativeResponse {
	if ini == nil {
		return nil
	}
	tags := ini.Tags
	if tags == nil {
		tags = []string{}
	}
	return &initiativeResponse{
		ID:            ini.ID.String(),
		Name:          ini.Name,
		Category:      ini.Category,
		Description:   ini.Description,
		Objectives:    ini.Objectives,
		LeadIDs:       userIDStrings(ini.LeadIDs),
		TeamMemberIDs: userIDStrings(ini.TeamMemberIDs),
		Status:        ini.Status.String(),
		Priority:      ini.Priority.String(),
		StartDate:     ini.StartDate,
		EndDate:       ini.EndDate,
		Tags:          tags,
		RAGStatus:     ini.RAGStatus.String(),
		Progress:      ini.Progress,
		CreatedAt:     ini.CreatedAt,
		UpdatedAt:     ini.UpdatedAt,
	}
}

type taskResponse struct {
	ID           string    `json:"id"`
	InitiativeID string    `json:"initiativeId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	OwnerID      string    `json:"ownerId"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"startDate"`
	DueDate      time.Time `json:"dueDate"`
	Progress     int       `json:"progress"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toTaskResponse(t *model.Task) *taskResponse {
	return &taskResponse{
		ID:           t.ID.String(),
		InitiativeID: t.InitiativeID.String(),
		Title:        t.Title,
		Description:  t.Description,
		OwnerID:      t.OwnerID.String(),
		Status:       t.Status.String(),
		StartDate:    t.StartDate,
		DueDate:      t.DueDate,
		Progress:     t.Progress,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

type attachmentResponse struct {
	ID           string    `json:"id"`
	InitiativeID string    `json:"initiativeId"`
	FileName     string    `json:"fileName"`
	URL          string    `json:"url"`
	StoragePath  string    `json:"storagePath"`
	FileType     string    `json:"fileType"`
	Size         int64     `json:"size"`
	UploadedBy   string    `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toAttachmentResponse(a *model.Attachment) *attachmentResponse {
	return &attachmentResponse{
		ID:           a.ID.String(),
		InitiativeID: a.InitiativeID.String(),
		FileName:     a.FileName,
		URL:          a.URL,
		StoragePath:  a.StoragePath,
		FileType:     a.FileType,
		Size:         a.Size,
		UploadedBy:   a.UploadedBy.String(),
		CreatedAt:    a.CreatedAt,
	}
}

type masterItemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toMasterItemResponse(item *model.MasterItem) *masterItemResponse {
	return &masterItemResponse{ID: item.ID, Name: item.Name}
}

type initiativeRatingResponse struct {
	ID            string    `json:"id"`
	RatedBy       string    `json:"ratedBy"`
	Impact        int       `json:"impact"`
	Timeliness    int       `json:"timeliness"`
	Execution     int       `json:"execution"`
	Collaboration int       `json:"collaboration"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"createdAt"`
}

type userRatingResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	RatedBy       string    `json:"ratedBy"`
	Ownership     int       `json:"ownership"`
	Quality       int       `json:"quality"`
	Collaboration int       `json:"collaboration"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"createdAt"`
}

type checkinResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Summary   string    `json:"summary"`
	Blockers  string    `json:"blockers"`
	CreatedAt time.Time `json:"createdAt"`
}

// convertList maps every element of src with fn, never returning nil
func convertList[S any, D any](src []S, fn func(S) D) []D {
	result := make([]D, 0, len(src))
	for _, v := range src {
		result = append(result, fn(v))
	}
	return result
}

func toInitiativeRatingResponse(r *model.InitiativeRating) *initiativeRatingResponse {
	return &initiativeRatingResponse{
		ID:            r.ID,
		RatedBy:       r.RatedBy.String(),
		Impact:        r.Impact,
		Timeliness:    r.Timeliness,
		Execution:     r.Execution,
		Collaboration: r.Collaboration,
		Comments:      r.Comments,
		CreatedAt:     r.CreatedAt,
	}
}

func toUserRatingResponse(r *model.UserRating) *userRatingResponse {
	return &userRatingResponse{
		ID:            r.ID,
		UserID:        r.UserID.String(),
		RatedBy:       r.RatedBy.String(),
		Ownership:     r.Ownership,
		Quality:       r.Quality,
		Collaboration: r.Collaboration,
		Comments:      r.Comments,
		CreatedAt:     r.CreatedAt,
	}
}

func toCheckinResponse(c *model.DailyCheckin) *checkinResponse {
	return &checkinResponse{
		ID:        c.ID,
		UserID:    c.UserID.String(),
		Summary:   c.Summary,
		Blockers:  c.Blockers,
		CreatedAt: c.CreatedAt,
	}
}
