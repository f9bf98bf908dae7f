package dto

// CreateCommitRequest represents the request payload for snapshotting a project
type CreateCommitRequest struct {
	Message string `json:"message"`
}

// RestoreResult reports what restoring a commit did to the live files
type RestoreResult struct {
	CommitID        string `json:"commitId"`
	AlreadyUpToDate bool   `json:"alreadyUpToDate"`
	FilesRemoved    int    `json:"filesRemoved"`
	FilesAdded      int    `json:"filesAdded"`
	FilesRestored   int    `json:"filesRestored"`
}
