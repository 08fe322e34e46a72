package model

import (
	"sort"
	"strings"
)

// SortInitiatives orders initiatives by creation time, then id
func SortInitiatives(list []*Initiative) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

// SortTasks orders tasks by due date, then id
func SortTasks(list []*Task) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].DueDate.Before(list[j].DueDate)
		}
		return list[i].ID < list[j].ID
	})
}

// SortAttachments orders attachments newest first
func SortAttachments(list []*Attachment) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

// SortUsers orders users by case-insensitive name, then id
func SortUsers(list []*User) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].ID < list[j].ID
	})
}

// SortMasterItems orders lookup rows by name
func SortMasterItems(list []*MasterItem) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}
