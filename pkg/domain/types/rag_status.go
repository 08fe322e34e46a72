package types

import "fmt"

// RAGStatus is the Red/Amber/Green health indicator of an initiative
type RAGStatus string

const (
	RAGStatusRed   RAGStatus = "Red"
	RAGStatusAmber RAGStatus = "Amber"
	RAGStatusGreen RAGStatus = "Green"
)

func AllRAGStatuses() []RAGStatus {
	return []RAGStatus{RAGStatusRed, RAGStatusAmber, RAGStatusGreen}
}

func (s RAGStatus) IsValid() bool {
	switch s {
	case RAGStatusRed, RAGStatusAmber, RAGStatusGreen:
		return true
	default:
		return false
	}
}

// Normalize treats empty as RAGStatusGreen, the state of a fresh initiative.
func (s RAGStatus) Normalize() RAGStatus {
	if s == "" {
		return RAGStatusGreen
	}
	return s
}

func (s RAGStatus) String() string {
	return string(s)
}

func ParseRAGStatus(s string) (RAGStatus, error) {
	status := RAGStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid RAG status: %s", s)
	}
	return status, nil
}
