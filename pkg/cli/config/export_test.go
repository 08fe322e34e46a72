package config

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}

// NewIdentityForTest creates an Identity config for testing purposes
func NewIdentityForTest(backend, projectID, noAuthUID string) *Identity {
	return &Identity{
		backend:     backend,
		projectID:   projectID,
		noAuthUID:   noAuthUID,
		noAuthEmail: "developer@example.com",
		noAuthName:  "Developer",
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, bucket string) *Storage {
	return &Storage{backend: backend, bucket: bucket}
}
